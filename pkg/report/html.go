package report

import (
	"fmt"
	"html"
	"io"
)

const htmlStyle = `
    body { font-family: Arial, sans-serif; margin: 20px; }
    .header { background: #f5f5f5; padding: 20px; border-radius: 5px; }
    .cycle { border: 1px solid #ddd; margin: 10px 0; padding: 15px; border-radius: 5px; }
    .cycle.small { border-left: 4px solid #e74c3c; }
    .cycle.medium { border-left: 4px solid #f39c12; }
    .cycle.large { border-left: 4px solid #27ae60; }
    .removable-dep { background: #e8f5e8; padding: 8px; margin: 5px 0; border-radius: 3px; border-left: 3px solid #2ecc71; }
    .suggestion { background: #f8f9fa; padding: 8px; margin: 5px 0; border-radius: 3px; }
    .path { font-family: monospace; background: #f1f1f1; padding: 5px; }
`

func renderHTML(data Data, w io.Writer) error {
	if data.Mode == UnusedMode {
		return renderUnusedHTML(data, w)
	}
	return renderCyclesHTML(data, w)
}

func renderCyclesHTML(data Data, w io.Writer) error {
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n  <meta charset=\"UTF-8\">\n")
	fmt.Fprintf(w, "  <title>Dependency Cycle Report</title>\n  <style>%s</style>\n</head>\n<body>\n", htmlStyle)
	fmt.Fprintf(w, "  <div class=\"header\">\n    <h1>Dependency Cycle Report</h1>\n")
	fmt.Fprintf(w, "    <p><strong>Timestamp:</strong> %s</p>\n", html.EscapeString(data.Timestamp))
	fmt.Fprintf(w, "    <p><strong>Cycles found:</strong> %d</p>\n  </div>\n", len(data.Cycles))

	if len(data.Cycles) == 0 {
		fmt.Fprintln(w, "  <p>No dependency cycles found.</p>")
	}
	for _, c := range data.Cycles {
		class := "cycle "
		switch {
		case c.Length <= 3:
			class += "small"
		case c.Length <= 5:
			class += "medium"
		default:
			class += "large"
		}
		fmt.Fprintf(w, "  <div class=\"%s\">\n", class)
		fmt.Fprintf(w, "    <h3>Cycle #%d - %s</h3>\n", c.ID, html.EscapeString(string(c.Type)))
		fmt.Fprintf(w, "    <p><strong>Path:</strong> <span class=\"path\">%s</span></p>\n", html.EscapeString(formatPath(c.Path)))
		fmt.Fprintf(w, "    <p><strong>Length:</strong> %d targets</p>\n", c.Length)

		if len(c.Removable) > 0 {
			fmt.Fprintf(w, "    <div><strong>Removable dependencies:</strong>\n")
			for _, r := range c.Removable {
				fmt.Fprintf(w, "      <div class=\"removable-dep\">%s &rarr; %s (%s, %s)</div>\n",
					html.EscapeString(string(r.From)), html.EscapeString(string(r.To)), r.Confidence, html.EscapeString(r.Reason))
			}
			fmt.Fprintf(w, "    </div>\n")
		}
		if len(c.Suggestions) > 0 {
			fmt.Fprintf(w, "    <div><strong>Suggested fixes:</strong>\n")
			for _, s := range c.Suggestions {
				fmt.Fprintf(w, "      <div class=\"suggestion\">%s</div>\n", html.EscapeString(s))
			}
			fmt.Fprintf(w, "    </div>\n")
		}
		fmt.Fprintf(w, "  </div>\n")
	}
	fmt.Fprintf(w, "</body>\n</html>\n")
	return nil
}

func renderUnusedHTML(data Data, w io.Writer) error {
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n  <meta charset=\"UTF-8\">\n")
	fmt.Fprintf(w, "  <title>Unused Dependency Report</title>\n  <style>%s</style>\n</head>\n<body>\n", htmlStyle)
	fmt.Fprintf(w, "  <div class=\"header\">\n    <h1>Unused Dependency Report</h1>\n")
	fmt.Fprintf(w, "    <p><strong>Timestamp:</strong> %s</p>\n", html.EscapeString(data.Timestamp))
	fmt.Fprintf(w, "    <p><strong>Unused dependencies found:</strong> %d</p>\n  </div>\n", len(data.Unused))

	if len(data.Unused) == 0 {
		fmt.Fprintln(w, "  <p>No unused dependencies found.</p>")
	}
	for _, r := range data.Unused {
		fmt.Fprintf(w, "  <div class=\"removable-dep\">%s &rarr; %s (%s, %s)</div>\n",
			html.EscapeString(string(r.From)), html.EscapeString(string(r.To)), r.Confidence, html.EscapeString(r.Reason))
	}
	fmt.Fprintf(w, "</body>\n</html>\n")
	return nil
}

package watch

import (
	"context"
	"time"

	"github.com/ritzau/bazeldeps/pkg/logging"
)

// debounce batches paths arriving on in, flushing to out after
// quietPeriod of silence or maxWait since the first unflushed path,
// whichever comes first.
func debounce(ctx context.Context, in <-chan string, out chan<- Event, quietPeriod, maxWait time.Duration) {
	var (
		quiet       *time.Timer
		max         *time.Timer
		accumulated []string
	)

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		logging.Debug("watch: flushing batched BUILD changes", "count", len(accumulated))
		out <- Event{Paths: accumulated, Timestamp: time.Now()}
		accumulated = nil
		if quiet != nil {
			quiet.Stop()
			quiet = nil
		}
		if max != nil {
			max.Stop()
			max = nil
		}
	}

	quietC := func() <-chan time.Time {
		if quiet != nil {
			return quiet.C
		}
		return nil
	}
	maxC := func() <-chan time.Time {
		if max != nil {
			return max.C
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(out)
			return
		case path, ok := <-in:
			if !ok {
				flush()
				close(out)
				return
			}
			accumulated = append(accumulated, path)
			if quiet == nil {
				quiet = time.NewTimer(quietPeriod)
			} else {
				quiet.Reset(quietPeriod)
			}
			if max == nil {
				max = time.NewTimer(maxWait)
			}
		case <-quietC():
			flush()
		case <-maxC():
			flush()
		}
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/ka2n/recview/api/detail"
	"github.com/ka2n/recview/api/dispatch"
	"github.com/ka2n/recview/log"
	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <index>",
	Short: "Fetch the images of a record and show its detail page",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	s, err := newService(cmd, nil)
	if err != nil {
		return err
	}
	rec, err := recordAt(s.Records(), args[0])
	if err != nil {
		return err
	}

	// The queue plays the role of the UI thread: the result is handed over
	// there and read back here once it has run.
	q := dispatch.NewQueue()
	defer q.Close()

	type fetched struct {
		detail detail.Detail
		err    error
	}
	done := make(chan fetched, 1)
	run := s.StartDetail(cmd.Context(), rec, q, func(d detail.Detail, err error) {
		done <- fetched{detail: d, err: err}
	})
	log.Debug("Fetching record images", "title", rec.Title, "pending", run.Remaining())

	result := <-done
	if result.err != nil {
		return failure.Wrap(result.err)
	}

	md := detail.Markdown(result.detail)
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(md)
		return nil
	}

	// Render markdown with glamour
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return failure.Wrap(err)
	}

	out, err := renderer.Render(md)
	if err != nil {
		return failure.Wrap(err)
	}

	if err := RunPager(out); err != nil {
		return failure.Wrap(err)
	}
	return nil
}

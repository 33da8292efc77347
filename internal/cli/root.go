package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bryanwahyu/idea-analyzer/internal/client"
	"github.com/bryanwahyu/idea-analyzer/internal/tui"
)

const defaultServer = "http://localhost:5000"

// ErrAnalysisFailed is returned after the failure has already been printed.
var ErrAnalysisFailed = errors.New("analysis failed")

func Execute() error {
	return NewRoot().Execute()
}

var runTUI = func(c *client.Client) error {
	// deteksi style sebelum alt screen
	m := tui.NewModel(c).WithMarkdown(tui.DetectStyle())
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func NewRoot() *cobra.Command {
	var server string
	root := &cobra.Command{
		Use:           "ideactl",
		Short:         "Analyze startup ideas from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(client.New(server))
		},
	}
	root.PersistentFlags().StringVar(&server, "server", serverFromEnv(), "analysis API base URL (env IDEACTL_SERVER)")
	root.AddCommand(analyzeCmd(&server))
	return root
}

func serverFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("IDEACTL_SERVER")); v != "" {
		return v
	}
	return defaultServer
}

func analyzeCmd(server *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <idea...>",
		Short: "Analyze one idea and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idea := strings.Join(args, " ")
			payload, err := client.New(*server).Analyze(cmd.Context(), idea)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: "+client.Message(err))
				return ErrAnalysisFailed
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(payload.Plain()); err != nil {
					return err
				}
			} else {
				width, tty := terminalWidth(out)
				r := tui.Renderer{Width: width, Markdown: tty}
				if tty {
					r.Style = tui.DetectStyle()
				}
				fmt.Fprintln(out, r.Render(payload))
			}
			if flagged, _ := payload.Get("error"); flagged == true {
				return ErrAnalysisFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")
	return cmd
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 80, false
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width, true
	}
	return 80, true
}

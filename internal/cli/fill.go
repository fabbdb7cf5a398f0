package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jobcopilot/autofill"
	"github.com/jobcopilot/autofill/internal/api"
	"github.com/jobcopilot/autofill/internal/htmlutil"
	"github.com/jobcopilot/autofill/internal/render"
	"github.com/spf13/cobra"
)

func (c *CLI) newFillCommand() *cobra.Command {
	var apiBase string
	var noAI bool
	var useRender bool
	var outPath string
	var saveJob bool
	var markApplied bool

	cmd := &cobra.Command{
		Use:   "fill [url-or-file]",
		Short: "Fill a job application form in a URL, HTML file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Fill an application page directly
  autofill fill https://boards.greenhouse.io/acme/jobs/123

  # Fill a local HTML file
  autofill fill application.html

  # Pipe HTML content from a file
  cat application.html | autofill fill

  # Render a JavaScript-heavy page in a headless browser first
  autofill fill https://boards.greenhouse.io/acme/jobs/123 --render

  # Skip the AI fallback pass
  autofill fill application.html --no-ai

  # Write the filled document next to the summary
  autofill fill application.html --out filled.html

  # Record the job as saved in the backend
  autofill fill https://boards.greenhouse.io/acme/jobs/123 --save-job

  # Record the application as submitted after filling
  autofill fill https://boards.greenhouse.io/acme/jobs/123 --mark-applied

  # Use a backend on another port
  autofill fill application.html --api http://localhost:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var htmlContent string
			var target string
			var err error

			if len(args) == 0 {
				if isStdinTerminal() {
					return cmd.Help()
				}
				htmlContent, target, err = readFromStdin()
				if err != nil {
					return err
				}
			} else {
				target = args[0]
				slog.Debug("Fetching HTML", "target", target, "render", useRender)
				if useRender && isURL(target) {
					htmlContent, err = render.PageHTML(cmd.Context(), target, render.DefaultTimeout)
				} else {
					htmlContent, err = fetchHTML(target)
				}
				if err != nil {
					return err
				}
			}
			slog.Debug("HTML fetched", "target", target, "bytes", len(htmlContent))

			doc, err := htmlutil.LoadHTMLString(htmlContent)
			if err != nil {
				return err
			}

			opts := []autofill.Option{}
			if noAI {
				opts = append(opts, autofill.WithoutAI())
			}
			engine, err := autofill.New(apiBase, opts...)
			if err != nil {
				return err
			}

			pageURL := ""
			if isURL(target) {
				pageURL = target
			}

			start := time.Now()
			result, err := engine.Run(cmd.Context(), doc, pageURL)
			if err != nil {
				return err
			}
			slog.Debug("Fill completed", "duration", time.Since(start))

			output, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(output))

			if outPath != "" {
				filled, err := doc.Html()
				if err != nil {
					return fmt.Errorf("serialize document: %w", err)
				}
				if err := os.WriteFile(outPath, []byte(filled), 0644); err != nil {
					return fmt.Errorf("write filled document: %w", err)
				}
				slog.Info("Filled document written", "path", outPath)
			}

			if (saveJob || markApplied) && result.OK {
				client := api.NewClient(apiBase)
				ev := &api.JobEvent{Site: result.Site, JobURL: pageURL}
				if saveJob {
					if err := client.SaveJob(cmd.Context(), ev); err != nil {
						slog.Warn("Could not record saved job", "error", err)
					} else {
						slog.Info("Job recorded as saved", "site", result.Site)
					}
				}
				if markApplied {
					if err := client.MarkApplied(cmd.Context(), ev); err != nil {
						slog.Warn("Could not record application", "error", err)
					} else {
						slog.Info("Job recorded as applied", "site", result.Site)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiBase, "api", "http://localhost:8000", "Backend API base URL")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Disable the AI fallback pass")
	cmd.Flags().BoolVar(&useRender, "render", false, "Render the page in a headless browser before filling")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the filled HTML document to this path")
	cmd.Flags().BoolVar(&saveJob, "save-job", false, "Record the job as saved in the backend")
	cmd.Flags().BoolVar(&markApplied, "mark-applied", false, "Record the application as submitted in the backend")
	return cmd
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func fetchHTML(target string) (string, error) {
	if isURL(target) {
		resp, err := http.Get(target)
		if err != nil {
			return "", fmt.Errorf("fetch URL: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		return string(body), nil
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func readFromStdin() (string, string, error) {
	slog.Debug("Reading from stdin")
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return "", "", fmt.Errorf("stdin is empty")
	}

	if isURL(content) {
		slog.Debug("Stdin contains URL", "url", content)
		html, err := fetchHTML(content)
		if err != nil {
			return "", "", err
		}
		return html, content, nil
	}

	return content, "stdin", nil
}

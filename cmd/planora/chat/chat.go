// Package chatcmder provides the chat command: an interactive session with
// the event discovery assistant through the planora relay.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/assembler"
	"github.com/planora/planora/pkg/cliui"
	"github.com/planora/planora/pkg/config"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("planora> ")
)

const exitCommand = "/exit"

type chatCommander struct {
	relayTarget string
	apiTarget   string
	query       string
	markdown    bool

	settings *settings.Settings
	logger   *slog.Logger

	in    io.Reader
	out   io.Writer
	width int
}

var chatFlags = []string{
	config.FlagRelayTarget,
	config.FlagAPITarget,
}

const chatLongDesc string = `Start an interactive chat session with the Planora event assistant.

Messages are sent through the chat relay, which grounds every answer in the
current event catalog. Answers stream as they are written; events the
assistant recommends are shown as cards below the answer.

Press Ctrl+C to stop a streaming answer. Type /exit or press Ctrl+D to quit.

Examples:
  planora chat
  planora chat --query "Music festivals in Kochi"
  planora chat --relay-target http://localhost:8080 --markdown`

const chatShortDesc string = "Chat with the event assistant"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := settings.Load(cmd, chatFlags...)
			if err != nil {
				return err
			}
			cmder.settings = s
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.width = cliui.Width(os.Stdout)
			cmder.logger = cmder.settings.CLILogger()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return cmder.run(ctx)
		},
	}

	config.AddStringFlag(cmd, config.Registry, config.FlagRelayTarget, &cmder.relayTarget)
	config.AddStringFlag(cmd, config.Registry, config.FlagAPITarget, &cmder.apiTarget)
	cmd.Flags().StringVarP(&cmder.query, "query", "q", "", "Send this message first")
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render each finished answer as markdown instead of streaming it")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	client := assembler.NewClient(assembler.ClientConfig{
		RelayURL: c.settings.Viper.GetString("client.relay_target"),
		APIURL:   c.settings.Viper.GetString("client.api_target"),
	})

	events, err := client.Events(ctx)
	if err != nil {
		c.logger.Debug("could not load event list", "error", err)
		fmt.Fprintf(c.out, "\n  %s %s\n",
			cliui.FailMark,
			cliui.DimStyle.Render("Event list unavailable; recommended events will not be shown as cards."),
		)
	}
	conv := assembler.NewConversation(client, events)

	// Ctrl+C stops the streaming answer, or quits when nothing is streaming.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
				if conv.InFlight() {
					conv.Cancel()
					continue
				}
				quit()
				return
			}
		}
	}()

	c.printHeader(len(events))

	if strings.TrimSpace(c.query) != "" {
		fmt.Fprintf(c.out, "%s%s\n", userPrompt, c.query)
		c.turn(ctx, conv, c.query)
	}

	lines := readLines(ctx, c.in)
	for {
		if len(conv.History()) == 0 {
			c.printSuggestions()
		}
		fmt.Fprint(c.out, userPrompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			// EOF
			fmt.Fprintln(c.out)
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == exitCommand {
			return nil
		}
		if len(conv.History()) == 0 {
			input = pickSuggestion(input)
		}

		c.turn(ctx, conv, input)
	}
}

// turn sends one message and prints the answer followed by the cards of the
// events it recommends.
func (c *chatCommander) turn(ctx context.Context, conv *assembler.Conversation, text string) {
	var (
		result *assembler.Turn
		err    error
	)

	if c.markdown {
		conv.OnUpdate = nil
		err = cliui.Step(c.out, "Thinking", func() error {
			var sendErr error
			result, sendErr = conv.Send(ctx, text)
			return sendErr
		})
	} else {
		live := &liveText{w: c.out}
		conv.OnUpdate = live.update
		fmt.Fprint(c.out, assistantPrompt)
		result, err = conv.Send(ctx, text)
		if err == nil {
			live.finish(result.Content)
		}
		fmt.Fprintln(c.out)
	}

	if err != nil {
		c.printError(err)
		return
	}

	if c.markdown {
		rendered, renderErr := cliui.RenderMarkdown(result.Content, c.width)
		if renderErr != nil {
			c.logger.Debug("markdown render failed", "error", renderErr)
		}
		fmt.Fprintln(c.out, rendered)
	}

	for _, e := range result.ReferencedEvents {
		fmt.Fprintln(c.out, cliui.EventCard(e, c.width))
	}
	fmt.Fprintln(c.out)
}

func (c *chatCommander) printHeader(eventCount int) {
	fmt.Fprintf(c.out, "\n  %s New conversation\n", cliui.DimStyle.Render("●"))
	fmt.Fprintf(c.out, "  %s %s\n",
		cliui.KeyStyle.Render("Relay:"),
		cliui.NameStyle.Render(c.settings.Viper.GetString("client.relay_target")),
	)
	fmt.Fprintf(c.out, "  %s %s\n\n",
		cliui.KeyStyle.Render("Events:"),
		cliui.ValueStyle.Render(strconv.Itoa(eventCount)),
	)
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. Ctrl+C stops an answer. /exit or Ctrl+D to quit."))
}

func (c *chatCommander) printSuggestions() {
	fmt.Fprintf(c.out, "  %s\n", cliui.DimStyle.Render("Try one of these, or pick it by number:"))
	for i, s := range assembler.Suggestions {
		fmt.Fprintf(c.out, "    %s %s\n", cliui.KeyStyle.Render(strconv.Itoa(i+1)+"."), s)
	}
	fmt.Fprintln(c.out)
}

func (c *chatCommander) printError(err error) {
	var relayErr *assembler.RelayError
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("(stopped)"))
	case errors.As(err, &relayErr):
		fmt.Fprintf(c.out, "  %s %s\n\n", cliui.FailMark, cliui.ErrorStyle.Render(relayErr.Message))
	default:
		fmt.Fprintf(c.out, "  %s %v\n\n", cliui.FailMark, err)
	}
}

// pickSuggestion maps "1".."3" to the matching starter query.
func pickSuggestion(input string) string {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(assembler.Suggestions) {
		return input
	}
	return assembler.Suggestions[n-1]
}

// readLines delivers lines from r until EOF or ctx is done. Reading happens
// on its own goroutine so an interrupt can end the session while waiting
// for input.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/bootstrap"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/models"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/skill"
)

const launchAlias = "launch"

var intentAliases = map[string]skill.Intent{
	"movie":      skill.IntentMovie,
	"planet":     skill.IntentPlanet,
	"lightsaber": skill.IntentLightsaber,
	"quotes":     skill.IntentQuotes,
	"quote":      skill.IntentQuotes,
	"help":       skill.IntentHelp,
}

func (c *cli) newAskCmd() *cobra.Command {
	var (
		url   string
		appID string
	)

	cmd := &cobra.Command{
		Use:   "ask <launch|movie|planet|lightsaber|quotes|help|IntentName> [character]",
		Short: "Send one request to the skill and print the answer",
		Example: `  skillctl ask planet Yoda
  skillctl ask quotes Han Solo --url http://localhost:8080/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if appID == "" && len(c.cfg.Skill.ApplicationIDs) > 0 {
				appID = c.cfg.Skill.ApplicationIDs[0]
			}
			req := buildRequest(appID, args[0], strings.Join(args[1:], " "))

			var (
				resp models.Response
				err  error
			)
			if url != "" {
				resp, err = askRemote(cmd.Context(), url, req)
			} else {
				resp, err = c.askLocal(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			printResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "webhook URL of a running skill; empty runs the skill in-process")
	cmd.Flags().StringVar(&appID, "app-id", "", "application id to send (defaults to the first configured one)")
	return cmd
}

func buildRequest(appID, intent, character string) models.Request {
	if strings.EqualFold(intent, launchAlias) {
		return models.NewLaunchRequest(appID)
	}

	name := intent
	if alias, ok := intentAliases[strings.ToLower(intent)]; ok {
		name = alias.String()
	}

	var slots map[string]string
	if character != "" {
		slots = map[string]string{skill.SlotCharacter: character}
	}
	return models.NewIntentRequest(appID, name, slots)
}

func (c *cli) askLocal(ctx context.Context, req models.Request) (models.Response, error) {
	rt, err := bootstrap.New(c.cfg)
	if err != nil {
		return models.Response{}, err
	}
	defer rt.Close()

	return rt.Skill.Process(ctx, req)
}

func askRemote(ctx context.Context, url string, req models.Request) (models.Response, error) {
	var out models.Response
	resp, err := resty.New().R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post(url)
	if err != nil {
		return models.Response{}, fmt.Errorf("send request: %w", err)
	}
	if resp.IsError() {
		return models.Response{}, fmt.Errorf("skill answered %s", resp.Status())
	}
	return out, nil
}

func printResponse(w io.Writer, resp models.Response) {
	p := resp.Response
	if p.OutputSpeech == nil {
		fmt.Fprintln(w, "(no response)")
		return
	}

	if p.Card != nil {
		fmt.Fprintf(w, "card:     %s\n", p.Card.Title)
	}
	fmt.Fprintf(w, "speech:   %s\n", p.OutputSpeech.Text)
	if p.Reprompt != nil {
		fmt.Fprintf(w, "reprompt: %s\n", p.Reprompt.OutputSpeech.Text)
	}

	session := "open"
	if p.ShouldEndSession != nil && *p.ShouldEndSession {
		session = "ended"
	}
	fmt.Fprintf(w, "session:  %s\n", session)
}

package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// maxCallRounds bounds the function calls an expert makes for one question.
const maxCallRounds = 8

// Expert is a chat with a model specialised in one business.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	chat        *genai.Chat
}

// Start creates the chat of the expert.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends parts to the expert and returns the text of its answer. The
// function calls the model makes on the way are answered by the Library.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (string, error) {
	if e.chat == nil {
		return "", fmt.Errorf("expert %s is not started", e.Name)
	}
	for range maxCallRounds {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("no response from expert %s", e.Name)
		}

		var text []string
		var calls []*genai.Part
		for _, p := range resp.Candidates[0].Content.Parts {
			switch {
			case p.FunctionCall != nil:
				if e.Library == nil {
					return "", fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
				}
				slog.Debug("function call", "expert", e.Name, "function", p.FunctionCall.Name, "args", p.FunctionCall.Args)
				calls = append(calls, &genai.Part{FunctionResponse: e.Library(ctx, p.FunctionCall)})
			case p.Text != "":
				text = append(text, p.Text)
			}
		}
		if len(calls) == 0 {
			if len(text) == 0 {
				return "", fmt.Errorf("empty response from expert %s", e.Name)
			}
			return strings.Join(text, ""), nil
		}
		parts = calls
	}
	return "", fmt.Errorf("expert %s: %w", e.Name, errTooManyCalls)
}

var errTooManyCalls = errors.New("too many function calls for one question")

// Declaration returns the function declaration to ask this expert.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {Type: genai.TypeString, Description: "The question to ask the expert."},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "Expert's response."},
	}
}

// Call asks the question in args to the expert.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	answer, err := func() (string, error) {
		question, err := stringArg(args, "question")
		if err != nil {
			return "", err
		}
		answer, err := e.Ask(ctx, &genai.Part{Text: question})
		if err != nil {
			return "", fmt.Errorf("something went wrong while calling the expert: %w", err)
		}
		slog.Debug("expert answered", "expert", e.Name, "question", question, "answer", answer)
		return answer, nil
	}()
	return response(id, e.Name, answer, err)
}

// response returns the function response carrying either output or err.
func response(id, name, output string, err error) *genai.FunctionResponse {
	r := &genai.FunctionResponse{ID: id, Name: name}
	if err != nil {
		r.Response = map[string]any{"error": err.Error()}
	} else {
		r.Response = map[string]any{"output": output}
	}
	return r
}

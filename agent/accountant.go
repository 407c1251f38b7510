package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/date"
	"github.com/etnz/cgt/docs"
	"github.com/etnz/cgt/renderer"
	"google.golang.org/genai"
)

// Model is the Gemini model of every expert.
var Model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is preparing the UK tax return of an investment account: capital gains,
			dividends and currency gains. Figures must come from the Accountant, never guess them.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
			Always remind the user that the estimated tax uses basic rate bands only.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search, for HMRC rules
// and guidance.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert of the UK tax rules for individual investors.
		Ask the Researcher about HMRC guidance, rates, deadlines or reliefs.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert of the UK taxation of investments. You leverage Google Search to
			ground your assertions in HMRC's guidance (gov.uk) and cite it.
			`}}},
		},
	}
}

// NewAccountant returns the expert computing the figures of the ledger txs.
func NewAccountant(txs []cgt.Transaction, table cgt.AllowanceTable) *Expert {
	lib := AccountantFunctions(txs, table)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. It computes the UK tax figures of the user's ledger:
		tax year summaries, disposals with their matching rules, and Section 104 holdings.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's ledger of transactions.
				Use the Tools to compute figures, never compute them yourself.
				Tax years are written like 2024-2025 and run from 6 April to 5 April.
				Use the Documentation tool to explain how a figure was computed.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// markdownFunc declares a function of string parameters returning markdown.
func markdownFunc(name, description string, params map[string]string, required []string, run func(args map[string]any) (string, error)) *Func {
	props := make(map[string]*genai.Schema, len(params))
	for p, desc := range params {
		props[p] = &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required},
			Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown document."},
		},
		Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
			out, err := run(args)
			return response(id, name, out, err)
		},
	}
}

// stringArg returns the string argument name.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	return s, nil
}

// AccountantFunctions returns the functions computing figures out of txs.
func AccountantFunctions(txs []cgt.Transaction, table cgt.AllowanceTable) []Function {
	calculate := func(args map[string]any) (*cgt.Calculation, error) {
		label, err := stringArg(args, "year")
		if err != nil {
			return nil, err
		}
		year, err := cgt.ParseTaxYear(label)
		if err != nil {
			return nil, err
		}
		return cgt.Calculate(txs, year, table, cgt.WithPartialMatches())
	}
	yearParam := map[string]string{"year": "The tax year, like 2024-2025."}

	return []Function{
		markdownFunc("TaxYearSummary",
			"Computes the capital gains, dividends and currency gains of a tax year, the allowances used and the estimated tax.",
			yearParam, []string{"year"},
			func(args map[string]any) (string, error) {
				c, err := calculate(args)
				if err != nil {
					return "", err
				}
				return renderer.SummaryMarkdown(c), nil
			}),
		markdownFunc("Disposals",
			"Lists the disposals of a tax year with the acquisitions each one was matched with and the matching rule.",
			yearParam, []string{"year"},
			func(args map[string]any) (string, error) {
				c, err := calculate(args)
				if err != nil {
					return "", err
				}
				return renderer.DisposalsMarkdown("Disposals "+c.Year.String(), c.YearDisposals(), true), nil
			}),
		markdownFunc("Holdings",
			"Lists the Section 104 pools, units and allowable cost, held at the end of a day.",
			map[string]string{"date": "The day, formatted YYYY-MM-DD. Today by default."}, nil,
			func(args map[string]any) (string, error) {
				on := date.Today()
				if _, ok := args["date"]; ok {
					s, err := stringArg(args, "date")
					if err != nil {
						return "", err
					}
					if on, err = date.Parse(s); err != nil {
						return "", err
					}
				}
				pools, err := cgt.NewHoldings(txs, on, cgt.WithPartialMatches())
				if err != nil {
					return "", err
				}
				return renderer.HoldingsMarkdown(on, pools.Holdings()), nil
			}),
		markdownFunc("Documentation",
			"Returns a documentation topic of the tool, one of: "+strings.Join(must(docs.GetAllTopics()), ", ")+".",
			map[string]string{"topic": "The topic name."}, []string{"topic"},
			func(args map[string]any) (string, error) {
				topic, err := stringArg(args, "topic")
				if err != nil {
					return "", err
				}
				return docs.GetTopic(topic)
			}),
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

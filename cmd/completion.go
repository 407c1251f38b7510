package cmd

import (
	"flag"

	"github.com/etnz/cgt"
	"github.com/etnz/cgt/docs"
	"github.com/etnz/cgt/renderer"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors predicts the values of the flags, by flag name.
func flagPredictors() map[string]complete.Predictor {
	var years, formats predict.Set
	for _, y := range cgt.DefaultAllowances().Years() {
		years = append(years, y.String())
	}
	for _, f := range renderer.Formats {
		formats = append(formats, string(f))
	}
	return map[string]complete.Predictor{
		"ledger":        predict.Or(predict.Files("*.jsonl"), predict.Files("*.csv")),
		"ledger-format": predict.Set{"jsonl", "csv"},
		"allowances":    predict.Files("*.jsonl"),
		"log-level":     predict.Set{"debug", "info", "warn", "error"},
		"log-file":      predict.Files("*"),
		"y":             years,
		"format":        formats,
		"o":             predict.Files("*"),
	}
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	predictors := flagPredictors()
	flags := func(visit func(func(*flag.Flag))) map[string]complete.Predictor {
		res := make(map[string]complete.Predictor)
		visit(func(f *flag.Flag) {
			if p, ok := predictors[f.Name]; ok {
				res[f.Name] = p
			} else {
				res[f.Name] = predict.Nothing
			}
		})
		return res
	}

	global := flag.NewFlagSet("ukcgt", flag.ContinueOnError)
	bindFlags(global, new(Config))
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(global.VisitAll),
	}
	for _, cmds := range Commands {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: flags(fs.VisitAll)}
		}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "*"))
	}
	return root
}

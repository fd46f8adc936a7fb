package cmd

import (
	"flag"

	"github.com/etnz/returns/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the completion hints of flags that take a known kind of value.
var flagPredictors = map[string]complete.Predictor{
	"config":  predict.Files("*.yaml"),
	"prices":  predict.Files("*"),
	"returns": predict.Files("*"),
	"o":       predict.Files("*"),
	"format":  predict.Set{"csv", "jsonl", "markdown"},
}

// Completion returns the shell completion tree of the tool: global flags and
// one sub command per entry of Commands with its flags.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(global),
	}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flagsOf(fs)}
		switch c.Name() {
		case "prices", "returns":
			sub.Args = predict.Files("*")
		case "topic":
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(topics)
			}
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		p, ok := flagPredictors[f.Name]
		switch {
		case ok:
		case isBoolFlag(f):
			p = predict.Nothing
		default:
			p = predict.Something
		}
		flags[f.Name] = p
	})
	return flags
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

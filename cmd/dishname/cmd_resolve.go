package main

import (
	"fmt"
	"os"
	"time"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/core/dish/category"
	"dish-namer/internal/core/generator"
	"dish-namer/internal/core/namedb"
	"dish-namer/internal/core/resolver"
	"dish-namer/internal/pkg/common"

	"github.com/spf13/cobra"
)

type resolveFlags struct {
	quality   string
	data      string
	templates string
	vary      float64
	asJSON    bool
}

func newResolveCmd() *cobra.Command {
	var flags resolveFlags
	cmd := &cobra.Command{
		Use:   "resolve ING...",
		Short: "Resolve a dish name and description for a set of ingredient ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, flags, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.quality, "quality", "q", "", "Meal quality: Simple, Fine or Lavish")
	f.StringVar(&flags.data, "data", "", "Dishes document path or URL (built-in data when empty)")
	f.StringVar(&flags.templates, "templates", "", "Templates document path or URL (built-in templates when empty)")
	f.Float64Var(&flags.vary, "vary", 0, "Chance of adding time-based variation to the seed")
	f.BoolVar(&flags.asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runResolve(cmd *cobra.Command, flags resolveFlags, args []string) error {
	quality, ok := dish.ParseQuality(flags.quality)
	if !ok {
		return fmt.Errorf("unknown quality %q", flags.quality)
	}

	var src namedb.Source = &namedb.BytesSource{Data: namedb.DefaultDocument(), Label: "built-in"}
	if flags.data != "" {
		src = readOnlySource(flags.data)
	}
	db := namedb.Open(src)

	templates := generator.DefaultTemplates()
	if flags.templates != "" {
		data, err := readOnlySource(flags.templates).Read()
		if err != nil {
			return fmt.Errorf("read templates: %w", err)
		}
		var errs []error
		templates, errs = generator.ParseTemplates(data, namedb.FormatFor(flags.templates))
		for _, err := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	}

	res := resolver.New(db, generator.New(category.New(nil), templates), resolver.Options{
		VariationChance: flags.vary,
		TickWindow:      time.Second,
	})
	result := res.Resolve(dish.FromIDs(args...), quality.OrSimple())

	out := cmd.OutOrStdout()
	if flags.asJSON {
		s, err := common.ToJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}
	fmt.Fprintf(out, "Name:        %s\n", result.Name)
	fmt.Fprintf(out, "Description: %s\n", result.Description)
	fmt.Fprintf(out, "Source:      %s\n", result.Source)
	return nil
}

// readOnlySource 不會在檔案缺少時寫入預設內容
func readOnlySource(location string) namedb.Source {
	if namedb.IsRemote(location) {
		return namedb.NewHTTPSource(location, 10*time.Second)
	}
	return &namedb.BytesSource{
		Label:  location,
		Kind:   namedb.FormatFor(location),
		ReadFn: func() ([]byte, error) { return os.ReadFile(location) },
	}
}

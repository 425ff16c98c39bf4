package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meftunca/numbench/pkg/numfmt"
)

func newFormatCmd() *cobra.Command {
	var (
		localeName string
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "format [NUMBER...]",
		Short: "Format integers with a locale's thousands grouping",
		Long: `format prints each NUMBER grouped the way the timed case groups
1,000,000. The locale comes from --locale, or else from LC_ALL, LC_NUMERIC
or LANG. With no NUMBER it formats 1000000.`,
		Example: `  numbench format 1234567
  numbench format --locale en_IN.UTF-8 -- -12345678
  numbench format --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, name := range numfmt.Locales() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			var (
				loc numfmt.Locale
				err error
			)
			if localeName != "" {
				loc, err = numfmt.LocaleByName(localeName)
			} else {
				loc, err = numfmt.FromEnv(nil)
			}
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"1000000"}
			}
			for _, arg := range args {
				n, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("parse %q: %w", arg, err)
				}
				if _, err := numfmt.WriteFormatted(out, n, loc); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&localeName, "locale", "l", "", "locale name such as en, de_CH or en_IN.UTF-8")
	cmd.Flags().BoolVar(&list, "list", false, "list the built-in locales")
	return cmd
}

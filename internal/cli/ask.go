package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garyellow/askhr-go/internal/dispatch"
	"github.com/garyellow/askhr-go/internal/hr"
)

func newAskCmd(a *App) *cobra.Command {
	var (
		employee string
		language string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Answer a question as an employee",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := hr.NormalizeCode(employee)
			if code == "" {
				return errors.New("--employee is required")
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			resp := s.engine.Processor.Ask(cmd.Context(), strings.Join(args, " "), dispatch.Session{
				EmployeeCode: code,
				Language:     language,
			})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			_, err = fmt.Fprint(out, formatResponse(resp))
			return err
		},
	}

	cmd.Flags().StringVarP(&employee, "employee", "e", "", "employee code asking the question")
	cmd.Flags().StringVar(&language, "lang", "", "reply language (en or ar); detected from the query when empty")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response as JSON")
	return cmd
}

func newSectionsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the numbered policy sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			numbered := s.engine.Corpus.Numbered()
			if len(numbered) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("No policy sections loaded."))
				return err
			}
			rows := make([][]string, 0, len(numbered))
			for _, sec := range numbered {
				rows = append(rows, []string{strconv.Itoa(sec.Ordinal), sec.Title})
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"#", "Title"}, rows))
			return err
		},
	}
}

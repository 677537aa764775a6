package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garyellow/askhr-go/internal/app"
	"github.com/garyellow/askhr-go/internal/intent"
	"github.com/garyellow/askhr-go/internal/objstore"
	"github.com/garyellow/askhr-go/internal/source"
	"github.com/garyellow/askhr-go/internal/storage"
)

func newImportCmd(a *App) *cobra.Command {
	var records, credentials, policy string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the stored employee records and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if records == "" && credentials == "" && policy == "" {
				return errors.New("nothing to import: pass --records, --credentials or --policy")
			}

			cfg := *a.Config
			cfg.RecordsPath = records
			cfg.CredentialsPath = credentials
			cfg.PolicyPath = policy

			catalog, err := intent.LoadCatalog(cfg.KeywordsPath)
			if err != nil {
				return err
			}

			db, err := storage.New(cmd.Context(), cfg.SQLitePath())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer func() { _ = db.Close() }()

			ds, err := app.ImportData(cmd.Context(), &cfg, db, catalog.SectionTitles(), a.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var rows [][]string
			if ds.Records != nil {
				rows = append(rows, []string{"employees", strconv.Itoa(len(ds.Records.Records)), ds.Records.Encoding})
			}
			if ds.Credentials != nil {
				rows = append(rows, []string{"credentials", strconv.Itoa(len(ds.Credentials)), ""})
			}
			if policy != "" {
				rows = append(rows, []string{"policy sections", strconv.Itoa(len(ds.Policy)), "not stored"})
			}
			fmt.Fprint(out, renderTable([]string{"Dataset", "Rows", "Note"}, rows))

			if ds.Records != nil && len(ds.Records.Warnings) > 0 {
				fmt.Fprintln(out)
				fmt.Fprint(out, formatWarnings(ds.Records.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&records, "records", "", "employee records CSV")
	cmd.Flags().StringVar(&credentials, "credentials", "", "code,pin credentials CSV")
	cmd.Flags().StringVar(&policy, "policy", "", "policy document to validate (sections are not stored)")
	return cmd
}

func newCheckCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the configured data and report what the assistant sees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			e := s.engine
			out := cmd.OutOrStdout()

			gateway := styleDim.Render("disabled")
			if e.Gateway.Enabled() {
				gateway = strings.Join(e.Gateway.Providers(), ", ")
			}
			creds, err := s.db.CountCredentials(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"employees", strconv.Itoa(e.Directory.Len())},
				{"columns", strings.Join(e.Directory.Columns(), ", ")},
				{"entities", strings.Join(e.Directory.Entities(), ", ")},
				{"credentials", strconv.Itoa(creds)},
				{"policy sections", strconv.Itoa(e.Corpus.Len())},
				{"policy context", strconv.FormatBool(e.Index != nil)},
				{"completion gateway", gateway},
			}
			fmt.Fprint(out, renderTable([]string{"Item", "Value"}, rows))

			imports, err := s.db.Imports(cmd.Context())
			if err != nil {
				return err
			}
			if len(imports) > 0 {
				rows = rows[:0]
				for _, info := range imports {
					rows = append(rows, []string{info.Dataset, strconv.Itoa(info.RowCount), info.ImportedAt.Format(time.RFC3339)})
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, renderTable([]string{"Dataset", "Rows", "Imported"}, rows))
			}

			if unmapped := e.Matcher.UnmappedSections(); len(unmapped) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, styleError.Render("Sections without keywords (matched on title only):"))
				for _, title := range unmapped {
					fmt.Fprintln(out, "  "+title)
				}
			}
			if len(e.Warnings) > 0 {
				fmt.Fprintln(out)
				fmt.Fprint(out, formatWarnings(e.Warnings))
			}
			if len(e.Warnings) == 0 && len(e.Matcher.UnmappedSections()) == 0 {
				fmt.Fprintln(out, styleOK.Render("OK"))
			}
			return nil
		},
	}
}

func newPublishCmd(a *App) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Upload a data file to the object store",
		Long: "Upload a data file to the object store. Keys ending in .zst are\n" +
			"compressed before upload and decompressed again when loaded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r2 := a.Config.R2
			if !r2.Enabled {
				return errors.New("object store is not configured (set R2_ENABLED and credentials)")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if key == "" {
				key = filepath.Base(args[0])
			}

			client, err := objstore.New(cmd.Context(), objstore.Config{
				Endpoint:    objstore.Endpoint(r2.AccountID),
				AccessKeyID: r2.AccessKeyID,
				SecretKey:   r2.SecretAccessKey,
				BucketName:  r2.BucketName,
			})
			if err != nil {
				return err
			}
			etag, err := client.Publish(cmd.Context(), key, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleOK.Render("published"), key+" "+styleDim.Render(etag))
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "object key (default: the file name)")
	return cmd
}

func formatWarnings(warnings []source.Warning) string {
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		rows = append(rows, []string{strconv.Itoa(w.Row), w.Message})
	}
	return styleError.Render(fmt.Sprintf("%d row warnings", len(warnings))) + "\n" +
		renderTable([]string{"Row", "Warning"}, rows)
}

package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/logger"
	"github.com/garyellow/askhr-go/internal/objstore"
)

// Fetcher returns the raw contents of a named data file. *objstore.Client
// satisfies it; Files reads the local file system.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Files fetches from the local file system, decompressing ".zst" files.
type Files struct{}

// Fetch implements Fetcher.
func (Files) Fetch(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return objstore.MaybeDecompress(name, data)
}

// Options names the files to load. An empty path skips that dataset.
type Options struct {
	RecordsPath     string
	CredentialsPath string
	PolicyPath      string
	// PolicyTitles is the known section title list used to find headings.
	PolicyTitles []string
}

// Dataset is everything loaded in one pass. Fields for skipped paths are
// nil.
type Dataset struct {
	Records     *RecordSet
	Credentials []hr.Credential
	Policy      []hr.PolicySection
}

var (
	opLoadRecords     = domerrors.Op{Module: "source", Name: "load_records"}
	opLoadCredentials = domerrors.Op{Module: "source", Name: "load_credentials"}
	opLoadPolicy      = domerrors.Op{Module: "source", Name: "load_policy"}
)

// Load fetches and parses the configured files concurrently. The first
// failure cancels the rest. Failures are *errors.UserError naming the file.
func Load(ctx context.Context, fetcher Fetcher, opts Options, log *logger.Logger) (*Dataset, error) {
	ds := &Dataset{}
	g, gctx := errgroup.WithContext(ctx)

	if opts.RecordsPath != "" {
		g.Go(func() error {
			start := time.Now()
			data, err := fetcher.Fetch(gctx, opts.RecordsPath)
			if err != nil {
				return opLoadRecords.Wrapf(err, "could not read employee records from %s", opts.RecordsPath)
			}
			set, err := ParseRecords(data)
			if err != nil {
				return opLoadRecords.Wrapf(err, "employee records in %s are not a usable table", opts.RecordsPath)
			}
			ds.Records = set
			log.WithField("records", len(set.Records)).
				WithField("columns", len(set.Columns)).
				WithField("encoding", set.Encoding).
				WithField("warnings", len(set.Warnings)).
				WithField("duration_ms", time.Since(start).Milliseconds()).
				Info("Employee records loaded")
			for _, w := range set.Warnings {
				log.WithField("row", w.Row).Warn(w.Message)
			}
			return nil
		})
	}

	if opts.CredentialsPath != "" {
		g.Go(func() error {
			data, err := fetcher.Fetch(gctx, opts.CredentialsPath)
			if err != nil {
				return opLoadCredentials.Wrapf(err, "could not read credentials from %s", opts.CredentialsPath)
			}
			creds, err := ParseCredentials(data)
			if err != nil {
				return opLoadCredentials.Wrapf(err, "credentials in %s are malformed", opts.CredentialsPath)
			}
			ds.Credentials = creds
			log.WithField("credentials", len(creds)).Info("Credentials loaded")
			return nil
		})
	}

	if opts.PolicyPath != "" {
		g.Go(func() error {
			data, err := fetcher.Fetch(gctx, opts.PolicyPath)
			if err != nil {
				return opLoadPolicy.Wrapf(err, "could not read the policy document %s", opts.PolicyPath)
			}
			var sections []hr.PolicySection
			if IsHTML(opts.PolicyPath) {
				sections, err = ParsePolicyHTML(data, opts.PolicyTitles)
			} else {
				sections, err = ParsePolicyText(data, opts.PolicyTitles)
			}
			if err != nil {
				return opLoadPolicy.Wrapf(err, "could not split the policy document %s into sections", opts.PolicyPath)
			}
			ds.Policy = sections
			log.WithField("sections", len(sections)).Info("Policy document loaded")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

// IsHTML reports whether a policy path names an HTML document.
func IsHTML(name string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(name), ".zst")))
	return ext == ".html" || ext == ".htm"
}

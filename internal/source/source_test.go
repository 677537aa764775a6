package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/logger"
	"github.com/garyellow/askhr-go/internal/objstore"
)

const recordsCSV = "\xEF\xBB\xBFEmployee Code, Name ,Company,Nationality,Sex,Position,Age,Date of Joining,Annual Leave,Basic Salary,Net Salary,Region\n" +
	"e012,Layla Haddad,Tawfeer,Jordanian,Female,Cashier,29,2021-03-01 00:00:00,21,\"1,250.50\",700 JOD,North\n" +
	",No Code,Tawfeer,,,,,,,,,\n" +
	"E013,Omar Nasser,Tawfeer,Egyptian,Male,Cashier,forty,,14,900,,\n" +
	"E012,Duplicate,Tawfeer,,,,,,,,,\n" +
	",,,,,,,,,,,\n"

func TestParseRecords(t *testing.T) {
	t.Parallel()

	set, err := ParseRecords([]byte(recordsCSV))
	require.NoError(t, err)

	assert.Equal(t, "utf-8-bom", set.Encoding)
	assert.Equal(t, []string{
		hr.ColCode, hr.ColFullName, hr.ColEntity, hr.ColNationality, hr.ColGender,
		hr.ColJobTitle, hr.ColAge, hr.ColJoiningDate, hr.ColAnnualLeaves,
		hr.ColBasicSalary, hr.ColNetTotal, "Region",
	}, set.Columns)
	require.Len(t, set.Records, 2)

	layla := set.Records[0]
	assert.Equal(t, "E012", layla.Code)
	assert.Equal(t, "Layla Haddad", layla.FullName)
	assert.Equal(t, "2021-03-01", layla.JoiningDate)
	require.NotNil(t, layla.Age)
	assert.Equal(t, 29, *layla.Age)
	require.NotNil(t, layla.BasicSalary)
	assert.InDelta(t, 1250.50, *layla.BasicSalary, 0.001)
	require.NotNil(t, layla.NetTotal)
	assert.InDelta(t, 700, *layla.NetTotal, 0.001)
	assert.Equal(t, "North", layla.Extra["Region"])

	omar := set.Records[1]
	assert.Nil(t, omar.Age)
	assert.Nil(t, omar.NetTotal)

	var messages []string
	for _, w := range set.Warnings {
		messages = append(messages, w.Message)
	}
	assert.Len(t, set.Warnings, 3)
	assert.Contains(t, messages, "missing employee code; row skipped")
	assert.Contains(t, messages, "duplicate employee code E012; row skipped")
	assert.Contains(t, messages, `Age: "forty" is not a number`)

	// The parsed set builds a directory.
	dir, err := hr.NewDirectory(set.Records, set.Columns)
	require.NoError(t, err)
	_, ok := dir.HasColumn("region")
	assert.True(t, ok)
}

func TestParseRecords_Rejects(t *testing.T) {
	t.Parallel()

	_, err := ParseRecords(nil)
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)

	_, err = ParseRecords([]byte("Name,Entity\nAli,Tawfeer\n"))
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	out, enc, err := Decode([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc)
	assert.Equal(t, "plain", string(out))

	arabic, err := charmap.Windows1256.NewEncoder().Bytes([]byte("Code,الجنسية\nE1,أردني\n"))
	require.NoError(t, err)
	out, enc, err = Decode(arabic)
	require.NoError(t, err)
	assert.Equal(t, "windows-1256", enc)
	assert.Equal(t, "Code,الجنسية\nE1,أردني\n", string(out))

	utf16 := []byte{0xFF, 0xFE, 'C', 0, 'o', 0, 'd', 0, 'e', 0}
	out, enc, err = Decode(utf16)
	require.NoError(t, err)
	assert.Equal(t, "utf-16le", enc)
	assert.Equal(t, "Code", string(out))
}

func TestParseCredentials(t *testing.T) {
	t.Parallel()

	creds, err := ParseCredentials([]byte("PIN,Employee Code\n0042,e012\n\n9999, E013\n"))
	require.NoError(t, err)
	assert.Equal(t, []hr.Credential{
		{Code: "E012", PIN: "0042"},
		{Code: "E013", PIN: "9999"},
	}, creds)

	creds, err = ParseCredentials([]byte("E001,1234\n"))
	require.NoError(t, err)
	assert.Equal(t, []hr.Credential{{Code: "E001", PIN: "1234"}}, creds)

	_, err = ParseCredentials([]byte("code,pin\nE001\n"))
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)
}

const policyText = `Capital Partners Group
Code of Conduct

CEO MESSAGE
Our values guide everything we do.

1. Introduction
This Code applies to all employees.


It replaces earlier versions.
2. Gifts and Hospitality
Gifts above 50 JOD must be declared.
2.1 Declaring a gift
Use the gift register.
`

func TestParsePolicyText_Heuristic(t *testing.T) {
	t.Parallel()

	sections, err := ParsePolicyText([]byte(policyText), nil)
	require.NoError(t, err)

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"CEO MESSAGE", "1. Introduction", "2. Gifts and Hospitality", "2.1 Declaring a gift"}, titles)
	assert.Equal(t, "Our values guide everything we do.", sections[0].Body)
	assert.Equal(t, "This Code applies to all employees.\n\nIt replaces earlier versions.", sections[1].Body)
}

func TestParsePolicyText_KnownTitles(t *testing.T) {
	t.Parallel()

	sections, err := ParsePolicyText([]byte(policyText), []string{"CEO Message", "Introduction", "Gifts and Hospitality"})
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, "2. Gifts and Hospitality", sections[2].Title)
	// The sub-heading is not a known title, so it stays in the body.
	assert.Equal(t, "Gifts above 50 JOD must be declared.\n2.1 Declaring a gift\nUse the gift register.", sections[2].Body)

	corpus, err := hr.NewCorpus(sections)
	require.NoError(t, err)
	assert.Len(t, corpus.Numbered(), 2)
}

func TestParsePolicyText_Markdown(t *testing.T) {
	t.Parallel()

	sections, err := ParsePolicyText([]byte("intro text\n# CEO Message\nHello\n## 1. Scope\nAll staff\n"), nil)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "CEO Message", sections[0].Title)
	assert.Equal(t, "1. Scope", sections[1].Title)
	assert.Equal(t, "All staff", sections[1].Body)
}

const policyHTML = `<html><body>
<h1>CEO Message</h1><p>Our   values.</p>
<h2>1. Introduction</h2>
<p>This Code applies.</p>
<ul><li>Employees</li><li><p>Contractors</p></li></ul>
<h2>2. Confidentiality</h2>
<h3>Examples</h3>
<p>Keep data private.</p>
</body></html>`

func TestParsePolicyHTML(t *testing.T) {
	t.Parallel()

	sections, err := ParsePolicyHTML([]byte(policyHTML), nil)
	require.NoError(t, err)
	require.Len(t, sections, 4)
	assert.Equal(t, "Our values.", sections[0].Body)
	assert.Equal(t, "This Code applies.\n\nEmployees\n\nContractors", sections[1].Body)
	assert.Equal(t, "Examples", sections[3].Title)

	sections, err = ParsePolicyHTML([]byte(policyHTML), []string{"CEO Message", "Introduction", "Confidentiality"})
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, "Examples\n\nKeep data private.", sections[2].Body)
}

type mapFetcher map[string][]byte

func (m mapFetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func TestLoad(t *testing.T) {
	t.Parallel()
	log := logger.NewWithWriter("error", io.Discard)

	fetcher := mapFetcher{
		"records.csv": []byte(recordsCSV),
		"pins.csv":    []byte("code,pin\nE012,0042\n"),
		"policy.htm":  []byte(policyHTML),
	}
	ds, err := Load(context.Background(), fetcher, Options{
		RecordsPath:     "records.csv",
		CredentialsPath: "pins.csv",
		PolicyPath:      "policy.htm",
	}, log)
	require.NoError(t, err)
	assert.Len(t, ds.Records.Records, 2)
	assert.Len(t, ds.Credentials, 1)
	assert.Len(t, ds.Policy, 4)

	ds, err = Load(context.Background(), fetcher, Options{RecordsPath: "records.csv"}, log)
	require.NoError(t, err)
	assert.Nil(t, ds.Credentials)
	assert.Nil(t, ds.Policy)

	_, err = Load(context.Background(), fetcher, Options{RecordsPath: "records.csv", PolicyPath: "missing.txt"}, log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var ue *domerrors.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "load_policy", ue.Op.Name)
	assert.Equal(t, "could not read the policy document missing.txt", domerrors.UserMessage(err))

	_, err = Load(context.Background(), mapFetcher{"pins.csv": []byte("code,pin\nE012\n")}, Options{CredentialsPath: "pins.csv"}, log)
	require.Error(t, err)
	assert.Equal(t, "credentials in pins.csv are malformed", domerrors.UserMessage(err))
}

func TestFiles_DecompressesZst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	compressed, err := objstore.Compress([]byte("code,pin\nE1,1\n"))
	require.NoError(t, err)
	path := filepath.Join(dir, "pins.csv.zst")
	require.NoError(t, os.WriteFile(path, compressed, 0o600))

	data, err := Files{}.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "code,pin\nE1,1\n", string(data))
}

func TestIsHTML(t *testing.T) {
	t.Parallel()

	assert.True(t, IsHTML("policy.html"))
	assert.True(t, IsHTML("docs/Policy.HTM.zst"))
	assert.False(t, IsHTML("policy.md"))
	assert.False(t, IsHTML("policy.txt.zst"))
}

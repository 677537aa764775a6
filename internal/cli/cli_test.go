package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/askhr-go/internal/analytics"
	"github.com/garyellow/askhr-go/internal/config"
	"github.com/garyellow/askhr-go/internal/dispatch"
	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/hr"
	"github.com/garyellow/askhr-go/internal/logger"
)

const (
	testRecords = "Code,Full Name,Entity,Nationality,Gender,Annual Leaves\n" +
		"E012,Layla Haddad,Tawfeer,Jordanian,Female,21\n" +
		"E013,Omar Nasser,Tawfeer,Egyptian,Male,14\n" +
		"P001,Sami Khoury,Prologistics,Egyptian,Male,30\n"
	testCredentials = "code,pin\nE012,0042\nE013,1111\n"
	testPolicy      = "CEO Message\nWelcome to the group.\n1. Introduction\nThis Code applies to all employees.\n" +
		"2. Gifts and Hospitality\nGifts above 50 JOD must be declared.\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// testApp points an App at temp data files and a temp database.
func testApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	return &App{
		Config: &config.Config{
			DataDir:          dir,
			RecordsPath:      writeFile(t, dir, "records.csv", testRecords),
			CredentialsPath:  writeFile(t, dir, "pins.csv", testCredentials),
			PolicyPath:       writeFile(t, dir, "policy.txt", testPolicy),
			CompanyName:      config.DefaultCompanyName,
			QueryTimeout:     config.QueryProcessing,
			GatewayTimeout:   config.GatewayCall,
			ShutdownTimeout:  time.Second,
			LLMRateBurst:     5,
			LLMRefillPerHour: 10,
			LLMDailyLimit:    20,
		},
		Logger: logger.NewWithWriter("error", io.Discard),
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestAskCmd(t *testing.T) {
	t.Parallel()
	a := testApp(t)

	out, err := executeCmd(t, a, "ask", "--employee", "e012", "what", "is", "my", "annual", "leave", "balance")
	require.NoError(t, err)
	assert.Contains(t, out, "Layla Haddad (E012)")
	assert.Contains(t, out, "Annual Leaves")
	assert.Contains(t, out, "21")
}

func TestAskCmd_JSON(t *testing.T) {
	t.Parallel()
	a := testApp(t)

	out, err := executeCmd(t, a, "ask", "-e", "E013", "--json", "how many nationalities in Tawfeer")
	require.NoError(t, err)

	var resp dispatch.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, dispatch.KindAggregationTable, resp.Kind)
	require.NotNil(t, resp.Table)
	assert.Equal(t, "Tawfeer", resp.Table.Entity)
	assert.Equal(t, 2, resp.Table.Total)
}

func TestAskCmd_RequiresEmployee(t *testing.T) {
	t.Parallel()
	a := testApp(t)

	_, err := executeCmd(t, a, "ask", "what is my salary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--employee")

	_, err = executeCmd(t, a, "ask", "--employee", "E012")
	require.Error(t, err)
}

func TestSectionsCmd(t *testing.T) {
	t.Parallel()
	a := testApp(t)

	out, err := executeCmd(t, a, "sections")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Introduction")
	assert.Contains(t, out, "2. Gifts and Hospitality")
	assert.NotContains(t, out, "CEO Message")
}

func TestStatsCmd(t *testing.T) {
	t.Parallel()

	t.Run("csv", func(t *testing.T) {
		t.Parallel()
		out, err := executeCmd(t, testApp(t), "stats", "nationality", "--csv")
		require.NoError(t, err)
		assert.Equal(t, "Nationality,Count\nEgyptian,2\nJordanian,1\n", out)
	})

	t.Run("scoped", func(t *testing.T) {
		t.Parallel()
		out, err := executeCmd(t, testApp(t), "stats", "Nationality", "--in", "tawfeer", "--csv")
		require.NoError(t, err)
		assert.Equal(t, "Nationality,Count\nEgyptian,1\nJordanian,1\n", out)
	})

	t.Run("cross tab", func(t *testing.T) {
		t.Parallel()
		out, err := executeCmd(t, testApp(t), "stats", "gender", "--by-entity", "--csv")
		require.NoError(t, err)
		assert.Equal(t, "Entity,Male,Female\nPrologistics,1,0\nTawfeer,1,1\n", out)
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		out, err := executeCmd(t, testApp(t), "stats", "nationality", "--top", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Egyptian")
		assert.NotContains(t, out, "Jordanian")
		assert.Contains(t, out, "total 3")
		assert.Contains(t, out, "1 more categories not shown")
	})

	t.Run("column not in records", func(t *testing.T) {
		t.Parallel()
		_, err := executeCmd(t, testApp(t), "stats", "grade")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domerrors.ErrUnknownColumn))
	})
}

func TestImportCmd(t *testing.T) {
	t.Parallel()
	a := testApp(t)
	dir := t.TempDir()
	records := writeFile(t, dir, "new.csv", "Code,Full Name,Entity,Age\nX1,New Hire,Tawfeer,thirty\n,No Code,Tawfeer,40\n")

	_, err := executeCmd(t, a, "import")
	require.Error(t, err)

	out, err := executeCmd(t, a, "import", "--records", records)
	require.NoError(t, err)
	assert.Contains(t, out, "employees")
	assert.Contains(t, out, "utf-8")
	assert.Contains(t, out, "2 row warnings")
	assert.Contains(t, out, "missing employee code; row skipped")
}

func TestImportCmd_MissingFileReportsUserMessage(t *testing.T) {
	t.Parallel()
	a := testApp(t)
	missing := filepath.Join(t.TempDir(), "gone.csv")

	_, err := executeCmd(t, a, "import", "--records", missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var short bytes.Buffer
	ReportError(&short, err, false)
	assert.Contains(t, short.String(), "Error: could not read employee records from "+missing)
	assert.NotContains(t, short.String(), "source.load_records")

	var long bytes.Buffer
	ReportError(&long, err, true)
	assert.Contains(t, long.String(), "source.load_records")

	var plain bytes.Buffer
	ReportError(&plain, errors.New("nothing to import"), true)
	assert.Equal(t, 1, strings.Count(plain.String(), "nothing to import"))
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()
	a := testApp(t)

	out, err := executeCmd(t, a, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Prologistics, Tawfeer")
	assert.Contains(t, out, "credentials")
	assert.Contains(t, out, "disabled")
	assert.Contains(t, out, "Imported")
	assert.Contains(t, out, "OK")
}

func TestPublishCmd_RequiresObjectStore(t *testing.T) {
	t.Parallel()
	a := testApp(t)

	_, err := executeCmd(t, a, "publish", a.Config.RecordsPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object store")
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	assert.Empty(t, renderTable(nil, nil))

	out := renderTable([]string{"Nationality", "Count"}, [][]string{
		{"Egyptian", "2"},
		{"أردني", "10"},
		{"short"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Nationality")
	assert.Contains(t, lines[1], strings.Repeat("─", len("Nationality")))
	assert.Contains(t, lines[2], "Egyptian")
	assert.Contains(t, lines[3], "أردني")
}

func TestFormatResponse(t *testing.T) {
	t.Parallel()

	out := formatResponse(dispatch.Response{
		Kind: dispatch.KindFieldValue,
		FieldValue: &dispatch.FieldValue{
			EmployeeCode: "E012",
			Fields:       []hr.Field{{Name: hr.ColGrade, Value: "G7"}},
		},
	})
	assert.Contains(t, out, "E012")
	assert.Contains(t, out, "G7")

	out = formatResponse(dispatch.Response{
		Kind: dispatch.KindAggregationTable,
		Table: &dispatch.AggregationTable{
			Result: analytics.Result{
				Counts: []analytics.Count{{Label: "Tawfeer", Count: 2}},
				Total:  2,
				Entity: "Tawfeer",
			},
			Chart:     dispatch.ChartNone,
			Headcount: true,
		},
	})
	assert.Contains(t, out, "Scope")
	assert.Contains(t, out, "in Tawfeer")
	assert.NotContains(t, out, "chart:")

	out = formatResponse(dispatch.Response{
		Kind:     dispatch.KindNotFound,
		NotFound: &dispatch.NotFound{Reason: dispatch.ReasonNoRecord, Message: "No record found for E999."},
	})
	assert.Contains(t, out, "No record found for E999.")

	out = formatResponse(dispatch.Response{
		Kind:        dispatch.KindFixedAnswer,
		FixedAnswer: &dispatch.FixedAnswer{ID: "meet_the_team", Text: "Our HR team"},
	})
	assert.Equal(t, "Our HR team\n", out)
}

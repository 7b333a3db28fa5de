package main

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glocalvision/codebridge/pkg/config"
)

const sampleRunbook = `# codebridge Setup

Intro text.

## Prerequisites

- PostgreSQL 14 or later
- Go 1.19+ to build ` + "`bridgectl`" + `

## Environment variables

- ` + "`DB_USER`" + ` — role the application connects as
- ` + "`PASSWD`" + ` — password for the application role

## Database

Run ` + "`bridgectl db provision`" + `.

## Running the server

Run ` + "`bridgectl server`" + `.
`

func TestParse(t *testing.T) {
	runbook, err := Parse([]byte(sampleRunbook))
	require.NoError(t, err)

	assert.Equal(t, "codebridge Setup", runbook.Title)
	require.Len(t, runbook.Sections, 4)

	assert.Equal(t, "Prerequisites", runbook.Sections[0].Title)
	assert.Equal(t, "Environment variables", runbook.Sections[1].Title)

	env := runbook.FindSection("Environment variables")
	require.NotNil(t, env)
	assert.Equal(t, []string{"DB_USER", "PASSWD"}, env.Vars)

	assert.Nil(t, runbook.FindSection("Nonexistent"))
}

func TestParse_VarsDeduplicates(t *testing.T) {
	doc := `# Title

## Environment variables

- ` + "`DB_USER`" + ` — one
- ` + "`DB_USER`" + ` — again

## Database

- ` + "`DB_NAME`" + ` — database name
`
	runbook, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"DB_USER", "DB_NAME"}, runbook.Vars())
}

// The shipped runbook must stay in sync with the recognized configuration.
func TestValidate_ShippedRunbook(t *testing.T) {
	content, err := os.ReadFile("../../docs/SETUP.md")
	require.NoError(t, err)

	result := Validate(content)
	assert.True(t, result.IsValid(), "Expected valid runbook, got errors: %v", result.Errors)
}

func TestValidate_MissingSection(t *testing.T) {
	result := Validate([]byte("# Title\n\n## Prerequisites\n\n- text\n"))
	assert.False(t, result.IsValid())
	assert.True(t, hasError(result, "Missing section '## Environment variables'"))
	assert.True(t, hasError(result, "Missing section '## Database'"))
}

func TestValidate_MissingTitle(t *testing.T) {
	result := Validate([]byte("## Prerequisites\n\n- text\n"))
	assert.False(t, result.IsValid())
	assert.True(t, hasError(result, "Missing runbook title (# heading)"))
}

func TestValidate_UndocumentedVariable(t *testing.T) {
	doc := completeRunbookWithout("DB_USER")
	result := Validate([]byte(doc))
	assert.False(t, result.IsValid())
	assert.True(t, hasError(result, "Environment variable DB_USER is not documented"))
}

func TestValidate_UnknownVariable(t *testing.T) {
	doc := strings.Replace(completeRunbookWithout(""),
		"## Database", "- `NOT_A_REAL_VAR` — bogus\n\n## Database", 1)
	result := Validate([]byte(doc))
	assert.False(t, result.IsValid())
	assert.True(t, hasError(result, "Documented variable NOT_A_REAL_VAR is not recognized by the application"))
}

// completeRunbookWithout builds a runbook documenting every recognized
// variable except the named one.
func completeRunbookWithout(skip string) string {
	var sb strings.Builder
	sb.WriteString("# codebridge Setup\n\n## Prerequisites\n\n- PostgreSQL\n\n## Environment variables\n\n")
	for _, v := range config.EnvVars() {
		if v == skip {
			continue
		}
		fmt.Fprintf(&sb, "- `%s` — documented\n", v)
	}
	sb.WriteString("\n## Database\n\nProvision it.\n\n## Running the server\n\nRun it.\n")
	return sb.String()
}

func hasError(result *ValidationResult, message string) bool {
	for _, e := range result.Errors {
		if e.Message == message {
			return true
		}
	}
	return false
}

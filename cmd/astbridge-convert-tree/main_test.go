package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTreeFromEnvelope(t *testing.T) {
	tree, err := readTree([]byte(`{"ok":true,"ast":{"_type":"Ident","Name":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Ident", tree.Kind)
}

func TestReadBareTree(t *testing.T) {
	tree, err := readTree([]byte(`{"_type":"BlockStmt","List":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "BlockStmt", tree.Kind)
}

func TestReadTreeFailures(t *testing.T) {
	_, err := readTree([]byte(`{"ok":false,"error":{"type":"SyntaxError","msg":"bad"}}`))
	assert.ErrorContains(t, err, "SyntaxError: bad")

	_, err = readTree([]byte(`[1,2]`))
	assert.EqualError(t, err, "Invalid AST format")

	_, err = readTree([]byte(`{`))
	assert.Error(t, err)
}

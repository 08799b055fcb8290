package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"colortrainer/internal/reconcile"
)

func TestPrintResponse(t *testing.T) {
	resp := &reconcile.SyncResponse{
		Success: true,
		Message: "Synced 3 records from Hub",
		Results: map[string]*reconcile.SyncResult{
			"colors":   {Synced: 1, Errors: []string{"#2: record has no term"}},
			"taxonomy": {Synced: 2, Errors: []string{}},
		},
	}

	var buf bytes.Buffer
	printResponse(&buf, resp, true)

	want := "taxonomy  synced=2 errors=0\n" +
		"colors    synced=1 errors=1\n" +
		"  - #2: record has no term\n" +
		"Synced 3 records from Hub (dry run)\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintResponse_FailedRunHasNoMessage(t *testing.T) {
	var buf bytes.Buffer
	printResponse(&buf, &reconcile.SyncResponse{Error: "local store unavailable: closed"}, false)
	assert.Empty(t, buf.String())
}

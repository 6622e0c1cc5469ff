package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"fleetpoints/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportProcess_MixedOutcomes(t *testing.T) {
	drivers := newStubDriverRepo()
	uploads := &stubUploadRepo{}
	blobs := &stubBlobStore{}

	ana := drivers.add(&model.Driver{FirstName: "Ana", License: "LIC-001", Points: 10, Active: true})
	// Bruno was migrated from the old system: badge only in the legacy field.
	bruno := drivers.add(&model.Driver{FirstName: "Bruno", LegacyLicense: "LIC-002", Points: 0, Active: true})

	csvData := []byte("license,points\nLIC-001,150\nLIC-002,-30\nLIC-404,40\nLIC-001,abc\n")

	svc := NewImportService(drivers, uploads, blobs, 350)
	summary, err := svc.Process(context.Background(), csvData, "week32.csv", uuid.New(), "ops@fleetpoints.local")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.OK)
	assert.Equal(t, 2, summary.Fail)
	// Unknown badge and the row with garbage points both surface by license.
	assert.ElementsMatch(t, []string{"LIC-404", "LIC-001"}, summary.Unmatched)

	assert.Equal(t, 160, drivers.points(ana.ID))
	assert.Equal(t, -30, drivers.points(bruno.ID)) // imports carry no floor

	// Original bytes archived before any write.
	require.Len(t, blobs.keys, 1)
	assert.True(t, strings.HasSuffix(blobs.keys[0], "week32.csv"))

	// Audit log created and finalized.
	logs, err := uploads.List(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 4, logs[0].Total)
	assert.Equal(t, 2, logs[0].OK)
	assert.Equal(t, 2, logs[0].Fail)
	require.NotNil(t, logs[0].ProcessedAt)
}

func TestImportProcess_ParseFailureAborts(t *testing.T) {
	drivers := newStubDriverRepo()
	uploads := &stubUploadRepo{}
	blobs := &stubBlobStore{}

	svc := NewImportService(drivers, uploads, blobs, 350)
	_, err := svc.Process(context.Background(), []byte("not a workbook"), "week32.xlsx", uuid.New(), "ops@fleetpoints.local")

	require.Error(t, err)
	assert.Empty(t, blobs.keys)
	logs, _ := uploads.List(context.Background())
	assert.Empty(t, logs)
}

func TestImportProcess_BlobFailureAborts(t *testing.T) {
	drivers := newStubDriverRepo()
	ana := drivers.add(&model.Driver{FirstName: "Ana", License: "LIC-001", Active: true})
	uploads := &stubUploadRepo{}
	blobs := &stubBlobStore{fail: true}

	svc := NewImportService(drivers, uploads, blobs, 350)
	_, err := svc.Process(context.Background(), []byte("LIC-001,10\n"), "week32.csv", uuid.New(), "ops@fleetpoints.local")

	require.Error(t, err)
	assert.Equal(t, 0, drivers.points(ana.ID))
}

// A chunk that fails to commit marks only its own rows failed; chunks already
// committed stay committed and later chunks still run.
func TestImportProcess_ChunkIsolation(t *testing.T) {
	drivers := newStubDriverRepo()
	uploads := &stubUploadRepo{}
	blobs := &stubBlobStore{}

	const chunkSize = 350
	const totalRows = 800

	var sb strings.Builder
	ids := make([]uuid.UUID, 0, totalRows)
	for i := 0; i < totalRows; i++ {
		license := fmt.Sprintf("LIC-%04d", i)
		d := drivers.add(&model.Driver{FirstName: license, License: license, Active: true})
		ids = append(ids, d.ID)
		fmt.Fprintf(&sb, "%s,10\n", license)
	}

	// Poison one driver in the second chunk (row 400).
	drivers.failAddPointsFor = ids[400]

	svc := NewImportService(drivers, uploads, blobs, chunkSize)
	summary, err := svc.Process(context.Background(), []byte(sb.String()), "bulk.csv", uuid.New(), "ops@fleetpoints.local")
	require.NoError(t, err)

	assert.Equal(t, totalRows, summary.Total)
	assert.Equal(t, 450, summary.OK)  // chunks 1 and 3
	assert.Equal(t, 350, summary.Fail) // all of chunk 2

	// First chunk's increments survive the second chunk's failure.
	assert.Equal(t, 10, drivers.points(ids[0]))
	assert.Equal(t, 10, drivers.points(ids[349]))
	// Third chunk ran despite the failure before it.
	assert.Equal(t, 10, drivers.points(ids[700]))
}

func TestImportPreview_WritesNothing(t *testing.T) {
	drivers := newStubDriverRepo()
	ana := drivers.add(&model.Driver{FirstName: "Ana", License: "LIC-001", Points: 5, Active: true})
	uploads := &stubUploadRepo{}
	blobs := &stubBlobStore{}

	svc := NewImportService(drivers, uploads, blobs, 350)
	resp, err := svc.Preview([]byte("license,points\nLIC-001,150\nbogus,x\n"), "week32.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Empty(t, resp.Rows[0].Error)
	assert.NotEmpty(t, resp.Rows[1].Error)

	assert.Equal(t, 5, drivers.points(ana.ID))
	assert.Empty(t, blobs.keys)
	logs, _ := uploads.List(context.Background())
	assert.Empty(t, logs)
}

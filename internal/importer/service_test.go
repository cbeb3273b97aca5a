package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
	"github.com/lodgeguard/lodgeguard/internal/idempotency"
	"github.com/lodgeguard/lodgeguard/internal/importer"
)

const orgID = "org-123"

type importFixture struct {
	svc           *importer.Service
	contributions *contribution.MockRepository
	records       *idempotency.MockRepository
}

func newImportFixture(t *testing.T) *importFixture {
	ctrl := gomock.NewController(t)

	contribRepo := contribution.NewMockRepository(ctrl)
	recordRepo := idempotency.NewMockRepository(ctrl)

	contribSvc := contribution.NewService(contribRepo, idempotency.NewGuard(recordRepo))

	return &importFixture{
		svc:           importer.NewService(contribSvc),
		contributions: contribRepo,
		records:       recordRepo,
	}
}

const payrollExport = "Pay Date,Employee Ref,Tax Withheld\n" +
	"2026-01-05,EMP-001,100.00\n" +
	"2026-01-05,EMP-002,200.00\n"

func TestService_Import_RecordsEachRow(t *testing.T) {
	f := newImportFixture(t)

	f.records.EXPECT().InsertRecord(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.contributions.EXPECT().CreateContribution(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *contribution.Contribution) error {
			c.ID = uuid.New()
			assert.Equal(t, orgID, c.OrgID)
			assert.Equal(t, contribution.SourcePayroll, c.Source)
			return nil
		}).Times(2)
	f.records.EXPECT().SetResult(gomock.Any(), orgID, gomock.Any(), "payrollContribution", gomock.Any()).
		Return(nil).Times(2)

	result, err := f.svc.Import(context.Background(), orgID, "operator-1", strings.NewReader(payrollExport))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Duplicates)
}

func TestService_Import_ReuploadCountsDuplicates(t *testing.T) {
	f := newImportFixture(t)

	// Every row's derived key already exists.
	f.records.EXPECT().InsertRecord(gomock.Any(), gomock.Any()).
		Return(idempotency.ErrDuplicate).Times(2)
	f.records.EXPECT().GetRecord(gomock.Any(), orgID, gomock.Any()).
		Return(&idempotency.Record{}, nil).Times(2)

	result, err := f.svc.Import(context.Background(), orgID, "operator-1", strings.NewReader(payrollExport))
	require.NoError(t, err)

	assert.Zero(t, result.Imported)
	assert.Equal(t, 2, result.Duplicates)
}

func TestService_Import_UnknownFormatFailsBeforeAnyWrite(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.svc.Import(context.Background(), orgID, "operator-1",
		strings.NewReader("foo,bar\n1,2\n"))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)
}

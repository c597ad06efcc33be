package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/models"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
)

type mockCoverage struct {
	accepted       bool
	acceptedErr    error
	explicit       bool
	explicitErr    error
	catalog        bool
	catalogErr     error
	catalogQueried bool
}

func (m *mockCoverage) HasAccepted(ctx context.Context, studentID int64, itemType models.EnrollmentType, offeringID int64) (bool, error) {
	return m.accepted, m.acceptedErr
}

func (m *mockCoverage) AcceptedPackageCovers(ctx context.Context, studentID, courseOfferingID int64) (bool, error) {
	return m.explicit, m.explicitErr
}

func (m *mockCoverage) AcceptedPackageCoversByCatalog(ctx context.Context, studentID, courseOfferingID int64) (bool, error) {
	m.catalogQueried = true
	return m.catalog, m.catalogErr
}

func (m *mockCoverage) AcceptedCourseInPackage(ctx context.Context, studentID, packageOfferingID int64) (bool, error) {
	return m.explicit, m.explicitErr
}

func (m *mockCoverage) AcceptedCourseInPackageByCatalog(ctx context.Context, studentID, cycleID, packageID int64) (bool, error) {
	m.catalogQueried = true
	return m.catalog, m.catalogErr
}

func TestCheckCourseAllowsCleanStudent(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{}, zap.NewNop())
	err := checker.CheckCourse(context.Background(), 1, &models.CourseOffering{ID: 10})
	require.NoError(t, err)
}

func TestCheckCourseRejectsDuplicate(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{accepted: true}, zap.NewNop())
	err := checker.CheckCourse(context.Background(), 1, &models.CourseOffering{ID: 10})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCheckCourseRejectsExplicitPackageCoverage(t *testing.T) {
	repo := &mockCoverage{explicit: true}
	checker := NewEligibilityChecker(repo, zap.NewNop())
	err := checker.CheckCourse(context.Background(), 1, &models.CourseOffering{ID: 10})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
	// The explicit mapping decided it; the heuristic never ran.
	assert.False(t, repo.catalogQueried)
}

func TestCheckCourseRejectsCatalogCoverage(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{catalog: true}, zap.NewNop())
	err := checker.CheckCourse(context.Background(), 1, &models.CourseOffering{ID: 10})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCheckCourseSwallowsHeuristicFailure(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{catalogErr: errors.New("boom")}, zap.NewNop())
	err := checker.CheckCourse(context.Background(), 1, &models.CourseOffering{ID: 10})
	require.NoError(t, err)
}

func TestCheckCourseFailsOnExplicitQueryError(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{explicitErr: errors.New("boom")}, zap.NewNop())
	err := checker.CheckCourse(context.Background(), 1, &models.CourseOffering{ID: 10})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInternal))
}

func TestCheckPackageRejectsDuplicate(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{accepted: true}, zap.NewNop())
	err := checker.CheckPackage(context.Background(), 1, &models.PackageOffering{ID: 20})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCheckPackageRejectsCourseConflict(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{explicit: true}, zap.NewNop())
	err := checker.CheckPackage(context.Background(), 1, &models.PackageOffering{ID: 20, PackageID: 2, CycleID: 1})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCheckPackageSwallowsHeuristicFailure(t *testing.T) {
	checker := NewEligibilityChecker(&mockCoverage{catalogErr: errors.New("boom")}, zap.NewNop())
	err := checker.CheckPackage(context.Background(), 1, &models.PackageOffering{ID: 20, PackageID: 2, CycleID: 1})
	require.NoError(t, err)
}

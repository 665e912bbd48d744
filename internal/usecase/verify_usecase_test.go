package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refverify/engine/internal/domain"
	"github.com/refverify/engine/internal/verify"
)

func newTestUsecase() *VerifyUsecase {
	return NewVerifyUsecase(&verify.Engine{Cache: verify.NewMemoryCache()})
}

func TestVerifyOneShortCircuitsUnparseableText(t *testing.T) {
	u := newTestUsecase()
	result := u.VerifyOne(context.Background(), "asdf")
	require.NotNil(t, result)
	assert.Equal(t, domain.StatusUnparseable, result.Status)
}

func TestVerifyOneRunsTheCascadeWhenFieldsAreRecovered(t *testing.T) {
	u := newTestUsecase()
	result := u.VerifyOne(context.Background(), "Smith, J. A study of biological things (2020). Journal of Things, 12(3), 45-60.")
	require.NotNil(t, result)
	assert.NotEqual(t, domain.StatusUnparseable, result.Status)
}

func TestVerifyPreParsedMarksUnparseableEntriesWithoutTouchingTheEngine(t *testing.T) {
	u := newTestUsecase()
	results, _ := u.VerifyPreParsed(context.Background(), []string{
		"asdf",
		"Smith, J. A study of biological things (2020). Journal of Things, 12(3), 45-60.",
	}, 2)

	require.Len(t, results, 2)
	assert.Equal(t, domain.StatusUnparseable, results[0].Status)
	assert.Equal(t, 1, results[0].ReferenceNumber)
	assert.NotEqual(t, domain.StatusUnparseable, results[1].Status)
	assert.Equal(t, 2, results[1].ReferenceNumber)
}

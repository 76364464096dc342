package walker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/core/domain"
)

func TestVisitStack(t *testing.T) {
	a := domain.NewDependencyRecord("a.h", "id", time.UnixMilli(1), nil, nil)
	b := domain.NewDependencyRecord("b.h", "id", time.UnixMilli(1), nil, nil)
	// Same contents, different record.
	aCopy := domain.NewDependencyRecord("a.h", "id", time.UnixMilli(1), nil, nil)

	s := newVisitStack(2)
	assert.True(t, s.push(a))
	assert.True(t, s.push(b))
	assert.False(t, s.push(aCopy))

	assert.True(t, s.contains(a))
	assert.False(t, s.contains(aCopy))

	s.pop()
	assert.False(t, s.contains(b))
	assert.True(t, s.push(aCopy))
}

func TestVisitStack_ZeroCapacity(t *testing.T) {
	s := newVisitStack(0)
	assert.False(t, s.push(domain.NewDependencyRecord("a.c", "id", time.UnixMilli(1), nil, nil)))
}

package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
)

func collect(idx *domain.RecordIndex) []*domain.DependencyRecord {
	var records []*domain.DependencyRecord
	for rec := range idx.All() {
		records = append(records, rec)
	}
	return records
}

func TestRecordIndex_PutReplacesSameIdentity(t *testing.T) {
	idx := domain.NewRecordIndex()
	first := domain.NewDependencyRecord("src/a.c", "id-1", time.UnixMilli(1000), []string{"a.h"}, nil)
	second := domain.NewDependencyRecord("src/a.c", "id-1", time.UnixMilli(2000), []string{"b.h"}, nil)

	idx.Put(first)
	idx.Put(second)

	records := collect(idx)
	require.Len(t, records, 1)
	assert.Same(t, second, records[0])
	assert.Equal(t, 1, idx.Len())
	assert.Same(t, second, idx.Get("src/a.c", "id-1"))
}

func TestRecordIndex_PutPrependsNewIdentity(t *testing.T) {
	idx := domain.NewRecordIndex()
	a := domain.NewDependencyRecord("src/a.c", "id-1", time.UnixMilli(1000), nil, nil)
	b := domain.NewDependencyRecord("src/a.c", "id-2", time.UnixMilli(1000), nil, nil)
	c := domain.NewDependencyRecord("src/a.c", "id-3", time.UnixMilli(1000), nil, nil)

	idx.Put(a)
	idx.Put(b)
	idx.Put(c)

	assert.Equal(t, []*domain.DependencyRecord{c, b, a}, collect(idx))
	assert.Equal(t, 3, idx.Len())

	replacement := domain.NewDependencyRecord("src/a.c", "id-2", time.UnixMilli(5000), nil, nil)
	idx.Put(replacement)

	assert.Equal(t, []*domain.DependencyRecord{c, replacement, a}, collect(idx))
	assert.Equal(t, 3, idx.Len())
}

func TestRecordIndex_GetMisses(t *testing.T) {
	idx := domain.NewRecordIndex()
	idx.Put(domain.NewDependencyRecord("src/a.c", "id-1", time.UnixMilli(1000), nil, nil))

	assert.Nil(t, idx.Get("src/a.c", "id-2"))
	assert.Nil(t, idx.Get("src/b.c", "id-1"))
}

func TestRecordIndex_AllIsSortedBySource(t *testing.T) {
	idx := domain.NewRecordIndex()
	for _, path := range []string{"z.c", "a.c", "m.c"} {
		idx.Put(domain.NewDependencyRecord(path, "id", time.UnixMilli(1), nil, nil))
	}

	var paths []string
	for rec := range idx.All() {
		paths = append(paths, rec.SourcePath.String())
	}
	assert.Equal(t, []string{"a.c", "m.c", "z.c"}, paths)
}

func TestDependencyRecord_CompositeIsSetOnce(t *testing.T) {
	rec := domain.NewDependencyRecord("a.c", "id", time.UnixMilli(1000), nil, nil)

	_, known := rec.CompositeModTime()
	assert.False(t, known)

	rec.SetCompositeModTime(time.UnixMilli(3000))
	rec.SetCompositeModTime(time.UnixMilli(9000))

	got, known := rec.CompositeModTime()
	assert.True(t, known)
	assert.True(t, got.Equal(time.UnixMilli(3000)))
}

func TestDependencyRecord_NewerThan(t *testing.T) {
	ref := time.UnixMilli(2000)

	older := domain.NewDependencyRecord("a.c", "id", time.UnixMilli(1000), nil, nil)
	assert.False(t, older.NewerThan(ref))

	older.SetCompositeModTime(time.UnixMilli(2500))
	assert.True(t, older.NewerThan(ref))

	newer := domain.NewDependencyRecord("b.c", "id", time.UnixMilli(2001), nil, nil)
	assert.True(t, newer.NewerThan(ref))
}

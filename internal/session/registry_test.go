package session

import (
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateIsIdempotent(t *testing.T) {
	r := NewRegistry()

	rec, created := r.Create(42)
	assert.True(t, created)
	assert.False(t, rec.Bound())

	_, created = r.Create(42)
	assert.False(t, created)
}

func TestRegistry_BindAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Create(42)

	rec, ok := r.Bind(42, "Иванов Иван Иванович")
	require.True(t, ok)
	assert.Equal(t, "Иванов Иван Иванович", rec.FullName)
	assert.False(t, rec.BoundAt.IsZero())

	got, found := r.Lookup(42)
	require.True(t, found)
	assert.Equal(t, rec.FullName, got.FullName)
}

func TestRegistry_BindRejectsRebinding(t *testing.T) {
	r := NewRegistry()
	r.Bind(42, "Иванов Иван Иванович")

	rec, ok := r.Bind(42, "Петров Пётр Петрович")
	assert.False(t, ok)
	assert.Equal(t, "Иванов Иван Иванович", rec.FullName, "existing binding must survive")
}

func TestRegistry_ReplaceOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Bind(42, "Иванов Иван Иванович")

	rec := r.Replace(42, "Петров Пётр Петрович")
	assert.Equal(t, "Петров Пётр Петрович", rec.FullName)

	got, _ := r.Lookup(42)
	assert.Equal(t, "Петров Пётр Петрович", got.FullName)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			r.Create(id)
			r.Bind(id, "Иванов Иван Иванович")
			r.Lookup(id)
		}(i)
	}
	wg.Wait()

	rec, ok := r.Lookup(25)
	require.True(t, ok)
	assert.True(t, rec.Bound())
}

func TestValidateFullName(t *testing.T) {
	valid := []string{
		"Иванов Иван Иванович",
		"Петров Пётр Петрович",
		"Ёлкина Ёлка Ёлковна",
	}
	for _, name := range valid {
		assert.NoError(t, ValidateFullName(name), name)
	}

	invalid := []string{
		"",
		"Иванов Иван",                       // two tokens
		"Иванов Иван Иванович Оглы",         // four tokens
		"Иванov Иван Иванович",              // Latin letters mixed in
		"Smith John Jr",                     // fully Latin
		"Иванов Иван2 Иванович",             // digit
		"Иванов Иван-Оглы Иванович",         // hyphen is not a letter
	}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateFullName(name), ErrInvalidFullName, name)
	}

	long := "Иванов Иван "
	for utf8.RuneCountInString(long) <= 100 {
		long += "И"
	}
	assert.ErrorIs(t, ValidateFullName(long), ErrInvalidFullName)
}

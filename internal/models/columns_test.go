package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumns_Missing(t *testing.T) {
	stored := Columns{"app.zip", "app.dmg"}
	snapshot := Columns{"app.pkg", "app.zip", "app.tar"}

	assert.Equal(t, Columns{"app.pkg", "app.tar"}, stored.Missing(snapshot))
	assert.Empty(t, stored.Missing(Columns{"app.dmg"}))
}

func TestColumns_Extend(t *testing.T) {
	stored := Columns{"a", "b"}
	extended := stored.Extend(Columns{"c"})

	assert.Equal(t, Columns{"a", "b", "c"}, extended)
	assert.Equal(t, Columns{"a", "b"}, stored)
}

func TestUniqueColumns(t *testing.T) {
	assert.Equal(t, Columns{"x", "y"}, UniqueColumns([]string{"x", "y", "x"}))
	assert.True(t, Columns{"x"}.Contains("x"))
	assert.Equal(t, -1, Columns{"x"}.Index("z"))
	assert.True(t, Columns{"a", "b"}.Equal(Columns{"a", "b"}))
	assert.False(t, Columns{"a", "b"}.Equal(Columns{"b", "a"}))
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "mycol", NormalizeName("MyCol"))
	assert.Equal(t, "colwithnullvalues", NormalizeName("  colWithNullValues "))
}

func TestParseType(t *testing.T) {
	for _, raw := range []string{"String", "string", "STRING", " Int ", "Float", "boolean", "union"} {
		_, ok := ParseType(raw)
		assert.True(t, ok, "expected %q to be recognized", raw)
	}
	for _, raw := range []string{"", "varchar", "Strings", "decimal"} {
		_, ok := ParseType(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}

	got, _ := ParseType("Float")
	assert.Equal(t, TypeFloat, got)
}

func TestOptionalBoolJSON(t *testing.T) {
	t.Run("absent, false and true decode distinctly", func(t *testing.T) {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(`{"columnType":"Int","isNullable":null,"isPII":false}`), &e))
		assert.False(t, e.Nullable.Set)
		assert.True(t, e.PII.Set)
		assert.False(t, e.PII.Value)

		var missing Entry
		require.NoError(t, json.Unmarshal([]byte(`{"columnType":"Int"}`), &missing))
		assert.False(t, missing.Nullable.Set)
		assert.False(t, missing.PII.Set)
	})

	t.Run("absent fields are omitted on encode", func(t *testing.T) {
		out, err := json.Marshal(Entry{Name: "c", Type: "Int", PII: Some(true)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"columnName":"c","columnType":"Int","isPII":true}`, string(out))
	})

	t.Run("non boolean is rejected", func(t *testing.T) {
		var e Entry
		assert.Error(t, json.Unmarshal([]byte(`{"isNullable":"yes"}`), &e))
	})

	t.Run("pointer round trip", func(t *testing.T) {
		assert.Nil(t, OptionalBool{}.Ptr())
		assert.Equal(t, Some(false), FromPtr(Some(false).Ptr()))
		assert.Equal(t, OptionalBool{}, FromPtr(nil))
	})
}

func TestReconcile(t *testing.T) {
	expected := Entry{Name: "columnvalidate1", Type: "String", Nullable: Some(true), PII: Some(false)}

	t.Run("type and nullable mismatch yields two ordered reasons and seven keys", func(t *testing.T) {
		r := Reconcile(expected, Candidate{Name: "columnValidate1", Type: "Float", Nullable: Some(false), PII: Some(false)})

		require.Len(t, r.Reason, 2)
		assert.Contains(t, r.Reason[0], "type")
		assert.Contains(t, r.Reason[1], "nullability")
		assert.False(t, r.Passed())

		body, err := json.Marshal(r)
		require.NoError(t, err)
		var fields map[string]any
		require.NoError(t, json.Unmarshal(body, &fields))
		assert.Len(t, fields, 7)
		assert.Equal(t, "Float", fields["columnType"])
		assert.Equal(t, "String", fields["expectedType"])
		assert.Equal(t, false, fields["isNullable"])
		assert.Equal(t, true, fields["expectedNullable"])
		assert.Equal(t, false, fields["isPII"])
		assert.NotContains(t, fields, "expectedPII")
	})

	t.Run("matching fields pass", func(t *testing.T) {
		r := Reconcile(expected, Candidate{Name: "columnValidate1", Type: "string", Nullable: Some(true), PII: Some(false)})
		assert.True(t, r.Passed())
	})

	t.Run("absent side is skipped", func(t *testing.T) {
		r := Reconcile(Entry{Name: "c", Type: "Int"}, Candidate{Name: "c", Type: "INT", Nullable: Some(true), PII: Some(true)})
		assert.True(t, r.Passed())
		assert.False(t, r.IsNullable.Set)
		assert.False(t, r.IsPII.Set)

		r = Reconcile(expected, Candidate{Name: "c", Type: "String"})
		assert.True(t, r.Passed())
	})

	t.Run("all three mismatch in fixed order", func(t *testing.T) {
		r := Reconcile(expected, Candidate{Name: "c", Type: "Long", Nullable: Some(false), PII: Some(true)})
		require.Len(t, r.Reason, 3)
		assert.Contains(t, r.Reason[0], "type")
		assert.Contains(t, r.Reason[1], "nullability")
		assert.Contains(t, r.Reason[2], "PII")
		assert.Equal(t, Some(false), r.ExpectedPII)
	})

	t.Run("raw type spelling is kept", func(t *testing.T) {
		r := Reconcile(expected, Candidate{Name: "c", Type: "sTrInG"})
		assert.Equal(t, "sTrInG", r.ColumnType)
		assert.Equal(t, "String", r.ExpectedType)
		assert.True(t, r.Passed())
	})
}

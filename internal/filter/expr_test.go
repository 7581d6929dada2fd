package filter

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestQualifierContentIsExclusive(t *testing.T) {
	q := NewNumber(NameID, 42)
	assert.Equal(t, ContentNumber, q.Kind())

	n, ok := q.Number()
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = q.Text()
	assert.False(t, ok)
	_, ok = q.Date()
	assert.False(t, ok)
	_, ok = q.NumberRange()
	assert.False(t, ok)
	_, ok = q.DateRange()
	assert.False(t, ok)
}

func TestEmptyQualifier(t *testing.T) {
	assert.True(t, Empty.IsEmpty())
	assert.Equal(t, "", Empty.String())
	assert.False(t, NewText("", "x").IsEmpty())
	assert.False(t, NewText(NameKeyword, "").IsEmpty())
}

func TestQualifierString(t *testing.T) {
	d := civil.Date{Year: 2024, Month: 3, Day: 1}

	tests := []struct {
		name     string
		q        Qualifier
		expected string
	}{
		{"text", NewText(NameLabel, "bug"), "label:bug"},
		{"text with space", NewText(NameLabel, "in progress"), `label:"in progress"`},
		{"keyword bare", NewText(NameKeyword, "crash"), "crash"},
		{"keyword with space", NewText(NameKeyword, "dark mode"), `"dark mode"`},
		{"keyword operator word", NewText(NameKeyword, "OR"), `"OR"`},
		{"keyword leading dash", NewText(NameKeyword, "-x"), `"-x"`},
		{"keyword with colon", NewText(NameKeyword, "a:b"), `"a:b"`},
		{"text with quote", NewText(NameTitle, `say "hi"`), `title:"say \"hi\""`},
		{"empty text", NewText(NameLabel, ""), `label:""`},
		{"number", NewNumber(NameID, 7), "id:7"},
		{"date", NewDate(NameCreated, d), "created:2024-03-01"},
		{"number range", NewNumberRangeQualifier(NameUpdated, LessThan(24)), "updated:<24"},
		{"numeric text on typed name", NewText(NameUpdated, "12"), `updated:"12"`},
		{"numeric text on text name", NewText(NameMilestone, "2"), "milestone:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.q.String())
		})
	}
}

func TestCompositeString(t *testing.T) {
	expr := Disjunction{
		Left: Conjunction{
			Left:  NewText(NameLabel, "bug"),
			Right: Negation{Expr: NewText(NameIs, "closed")},
		},
		Right: NewText(NameKeyword, "crash"),
	}
	assert.Equal(t, "((label:bug AND NOT is:closed) OR crash)", expr.String())
}

func TestTreesAreComparable(t *testing.T) {
	a := Conjunction{Left: NewText(NameLabel, "bug"), Right: NewNumber(NameID, 1)}
	b := Conjunction{Left: NewText(NameLabel, "bug"), Right: NewNumber(NameID, 1)}
	assert.True(t, Expression(a) == Expression(b))
}

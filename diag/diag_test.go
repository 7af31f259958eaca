package diag

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/attrbind/syntax"
)

func TestBagDeduplicatesAndSorts(t *testing.T) {
	tree := syntax.NewTree("a.cs", "[A(1, 2)]\n[B]")
	bag := NewBag()

	bag.Add(Errorf(CodeBadAttributeArgument, tree, syntax.Span{Start: 6, End: 7}, "second"))
	bag.Add(Errorf(CodeBadAttributeArgument, tree, syntax.Span{Start: 3, End: 4}, "first"))
	bag.Add(Errorf(CodeBadAttributeArgument, tree, syntax.Span{Start: 3, End: 4}, "again"))
	bag.Add(Warnf(CodeObsoleteConstructor, tree, syntax.Span{Start: 3, End: 4}, "old"))

	items := bag.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Message)
	assert.Equal(t, CodeObsoleteConstructor, items[1].Code)
	assert.Equal(t, "second", items[2].Message)
	assert.Equal(t, 1, items[0].Pos.Line)
	assert.Equal(t, 3, items[0].Pos.Character)

	assert.Equal(t, 2, bag.Count(CodeBadAttributeArgument))
	assert.True(t, bag.HasErrors())
	assert.Equal(t, 3, bag.Len())
}

func TestBagWarningsOnly(t *testing.T) {
	bag := NewBag()
	assert.False(t, bag.HasErrors())
	bag.Add(Warnf(CodeObsoleteConstructor, nil, syntax.Span{}, "old"))
	assert.False(t, bag.HasErrors())
	assert.Equal(t, []Code{CodeObsoleteConstructor}, bag.Codes())
}

func TestBagConcurrentAdd(t *testing.T) {
	bag := NewBag()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bag.Add(Errorf(CodeNameNotFound, nil, syntax.Span{Start: i % 4, End: i%4 + 1}, "x"))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, bag.Len())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Add(Diagnostic{}) })
}

func TestFromSyntax(t *testing.T) {
	_, err := syntax.ParseString("s.cs", "[A(]")
	require.Error(t, err)
	var list syntax.ErrorList
	require.ErrorAs(t, err, &list)

	d := FromSyntax(list[0])
	assert.Equal(t, CodeSyntax, d.Code)
	assert.Equal(t, "s.cs", d.File)
	assert.True(t, d.IsError())
}

func TestFormat(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	tree := syntax.NewTree("w.cs", "[Info(x)]")
	d := Errorf(CodeNameNotFound, tree, syntax.Span{Start: 6, End: 7}, "the name 'x' does not exist")

	assert.Equal(t, "w.cs:1:7: error[name-not-found]: the name 'x' does not exist", Format(d, ContextPlain, nil))

	src := func(file string, line int) (string, bool) {
		if file != tree.Path {
			return "", false
		}
		return tree.LineText(line), true
	}
	got := Format(d, ContextTerminal, src)
	assert.Equal(t, "w.cs:1:7: error[name-not-found] the name 'x' does not exist\n  [Info(x)]\n        ^", got)

	all := FormatAll([]Diagnostic{d, Warnf(CodeObsoleteConstructor, tree, syntax.Span{Start: 1, End: 5}, "old")}, ContextPlain, nil)
	assert.Contains(t, all, "1 error(s), 1 warning(s)")
	assert.Equal(t, fmt.Sprintf("%s\n%s\n1 error(s), 1 warning(s)", d, Warnf(CodeObsoleteConstructor, tree, syntax.Span{Start: 1, End: 5}, "old")), all)
}

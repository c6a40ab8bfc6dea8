package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_HeaderAndRows(t *testing.T) {
	b := NewBuilder(t).
		WithHeader("INSERT", "Product", "code", "name").
		WithRow("a", "b")

	require.Equal(t, "INSERT Product;code;name\n;a;b", b.Build())
	require.Equal(t, []int{0}, b.Headers())
	require.Equal(t, 2, b.LineCount())
}

func TestBuilder_Options(t *testing.T) {
	b := NewBuilder(t).
		WithHeaderOpts("UPDATE", "Price", []string{"price"}, Indent("  "), Trailing()).
		WithRowOpts([]string{"1"}, Trailing())

	require.Equal(t, "  UPDATE Price;price;", b.Line(0))
	require.Equal(t, ";1;", b.Line(1))
}

func TestBuilder_CommentBlankRaw(t *testing.T) {
	b := NewBuilder(t).WithComment("x").WithBlank().WithRaw("$macro=1;2")

	require.Equal(t, "# x\n\n$macro=1;2", b.Build())
	require.Empty(t, b.Headers())
}

func TestBuilder_BuildCRLF(t *testing.T) {
	b := NewBuilder(t).WithHeader("REMOVE", "Unit", "code").WithRow("u")

	require.Equal(t, "REMOVE Unit;code\r\n;u", b.BuildCRLF())
}

func TestBuilder_ProductCatalog(t *testing.T) {
	b := NewBuilder(t).WithProductCatalog()

	require.Equal(t, 7, b.LineCount())
	require.Equal(t, []int{1, 5}, b.Headers())
	require.Equal(t, ";p-1;Widget;pieces", b.Line(2))
	require.Equal(t, "", b.Line(4))
}

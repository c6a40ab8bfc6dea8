package testutil

// WithProductCatalog adds two records with a comment and a blank line between
// them:
//
//	0 # products
//	1 INSERT_UPDATE Product;code[unique=true];name[lang=en];unit(code)
//	2 ;p-1;Widget;pieces
//	3 ;p-2;Gadget;pieces
//	4
//	5 UPDATE Price;product(code);price
//	6 ;p-1;9.99
func (b *Builder) WithProductCatalog() *Builder {
	return b.
		WithComment("products").
		WithHeader("INSERT_UPDATE", "Product", "code[unique=true]", "name[lang=en]", "unit(code)").
		WithRow("p-1", "Widget", "pieces").
		WithRow("p-2", "Gadget", "pieces").
		WithBlank().
		WithHeader("UPDATE", "Price", "product(code)", "price").
		WithRow("p-1", "9.99")
}

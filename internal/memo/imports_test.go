package memo

import (
	"testing"

	"hrcore/testutil"
)

func TestNoDriverOrAdapterImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(testutil.InfraImportForbidden, testutil.AdapterImportForbidden),
		"memo works against domain.RowStore only")
}

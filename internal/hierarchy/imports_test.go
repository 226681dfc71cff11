package hierarchy

import (
	"testing"

	"hrcore/testutil"
)

func TestNoDriverOrAdapterImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(testutil.InfraImportForbidden, testutil.AdapterImportForbidden),
		"hierarchy works against domain.RowStore only")
}

package hierarchy

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"hrcore/pkg/domain"
)

func TestResolveChain(t *testing.T) {
	forest := Resolve([]domain.EmployeeRecord{
		emp("Alice", ""),
		emp("Bob", "Alice"),
		emp("Carol", "Bob"),
	})
	if got := shape(forest.Root); got != "alice(bob(carol))" {
		t.Fatalf("unexpected tree %s", got)
	}
	if forest.Root.Synthetic {
		t.Fatalf("single root must be returned directly")
	}
	if len(forest.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", forest.Diagnostics)
	}
}

func TestResolveTwoNodeCycleSeversClosingEdge(t *testing.T) {
	forest := Resolve([]domain.EmployeeRecord{
		emp("Alice", "Bob"),
		emp("Bob", "Alice"),
	})
	if got := shape(forest.Root); got != "bob(alice)" {
		t.Fatalf("expected bob to become root of alice, got %s", got)
	}
	severed := forest.Diagnostics.OfKind(domain.DiagnosticSeveredCycle)
	if len(severed) != 1 || len(forest.Diagnostics) != 1 {
		t.Fatalf("expected exactly one severance, got %+v", forest.Diagnostics)
	}
	if severed[0].SubjectID != "bob" || severed[0].Related != "alice" {
		t.Fatalf("unexpected severance %+v", severed[0])
	}
}

func TestResolveSyntheticRoot(t *testing.T) {
	forest := Resolve([]domain.EmployeeRecord{
		emp("Alice", ""),
		emp("Dan", ""),
	})
	if !forest.Root.Synthetic || forest.Root.SubjectID != domain.SyntheticRootID {
		t.Fatalf("expected synthetic root, got %+v", forest.Root)
	}
	if forest.Root.Label != domain.SyntheticRootLabel || forest.Root.Metadata != nil {
		t.Fatalf("synthetic root should carry the fixed label and no metadata: %+v", forest.Root)
	}
	if got := shape(forest.Root); got != "__root__(alice,dan)" {
		t.Fatalf("unexpected tree %s", got)
	}
	if roots := forest.Roots(); len(roots) != 2 {
		t.Fatalf("expected two real roots, got %d", len(roots))
	}
}

func TestResolveEmptyRoster(t *testing.T) {
	forest := Resolve(nil)
	if forest.Root == nil || !forest.Root.Synthetic || len(forest.Root.Children) != 0 {
		t.Fatalf("expected empty synthetic root, got %+v", forest.Root)
	}
	if forest.Root.Count() != 1 {
		t.Fatalf("expected one node, got %d", forest.Root.Count())
	}
}

func TestResolveLongCycleWithTail(t *testing.T) {
	forest := Resolve([]domain.EmployeeRecord{
		emp("Xavier", "Ann"),
		emp("Ann", "Ben"),
		emp("Ben", "Cid"),
		emp("Cid", "Ann"),
	})
	// Walk from xavier: xavier -> ann -> ben -> cid -> ann closes the loop at cid.
	if got := shape(forest.Root); got != "cid(ben(ann(xavier)))" {
		t.Fatalf("unexpected tree %s", got)
	}
	severed := forest.Diagnostics.OfKind(domain.DiagnosticSeveredCycle)
	if len(severed) != 1 || severed[0].SubjectID != "cid" || severed[0].Related != "ann" {
		t.Fatalf("unexpected severances %+v", severed)
	}
	assertNoSelfAncestor(t, forest.Root)
}

func TestResolveSelfReference(t *testing.T) {
	forest := Resolve([]domain.EmployeeRecord{
		emp("Alice", "alice"),
		emp("Bob", "Alice"),
	})
	if got := shape(forest.Root); got != "alice(bob)" {
		t.Fatalf("unexpected tree %s", got)
	}
	severed := forest.Diagnostics.OfKind(domain.DiagnosticSeveredCycle)
	if len(severed) != 1 || severed[0].SubjectID != "alice" || severed[0].Related != "alice" {
		t.Fatalf("unexpected severances %+v", severed)
	}
}

func TestResolveMissingManagerBecomesRoot(t *testing.T) {
	forest := Resolve([]domain.EmployeeRecord{
		emp("Alice", ""),
		emp("Bob", "Ghost"),
	})
	if got := shape(forest.Root); got != "__root__(alice,bob)" {
		t.Fatalf("unexpected tree %s", got)
	}
	missing := forest.Diagnostics.OfKind(domain.DiagnosticMissingManager)
	if len(missing) != 1 || missing[0].SubjectID != "bob" || missing[0].Related != "Ghost" {
		t.Fatalf("unexpected diagnostics %+v", forest.Diagnostics)
	}
}

func TestResolveNormalizesManagerNames(t *testing.T) {
	forest := Resolve([]domain.EmployeeRecord{
		emp("Ana  María López", ""),
		emp("Bob", "  ana maría   LÓPEZ "),
	})
	if got := shape(forest.Root); got != "ana  maría lópez(bob)" {
		t.Fatalf("unexpected tree %s", got)
	}
	if len(forest.Diagnostics) != 0 {
		t.Fatalf("expected clean resolve, got %+v", forest.Diagnostics)
	}
}

func TestResolveDuplicateNameFirstWins(t *testing.T) {
	first := emp("Alice", "")
	first.ID = "a1"
	second := emp("Alice", "")
	second.ID = "a2"
	forest := Resolve([]domain.EmployeeRecord{first, second, emp("Bob", "Alice")})
	if got := shape(forest.Root); got != "__root__(a1(bob),a2)" {
		t.Fatalf("unexpected tree %s", got)
	}
	dups := forest.Diagnostics.OfKind(domain.DiagnosticDuplicateName)
	if len(dups) != 1 || dups[0].SubjectID != "a2" || dups[0].Related != "a1" {
		t.Fatalf("unexpected diagnostics %+v", forest.Diagnostics)
	}
}

func TestResolveDuplicateIDKeepsBothNodes(t *testing.T) {
	a := emp("Alice", "")
	b := emp("Bob", "Alice")
	b.ID = a.ID
	forest := Resolve([]domain.EmployeeRecord{a, b})
	if forest.Root.Count() != 2 {
		t.Fatalf("expected both records in the tree, got %d nodes", forest.Root.Count())
	}
	if len(forest.Diagnostics.OfKind(domain.DiagnosticDuplicateID)) != 1 {
		t.Fatalf("expected duplicate id diagnostic, got %+v", forest.Diagnostics)
	}
}

func TestResolveCopiesMetadata(t *testing.T) {
	rec := empRole("Alice", "", "Engineer", "R&D")
	rec.Metadata = map[string]string{"site": "north"}
	forest := Resolve([]domain.EmployeeRecord{rec})
	forest.Root.Metadata["site"] = "changed"
	if rec.Metadata["site"] != "north" {
		t.Fatalf("tree metadata must not alias record metadata")
	}
	if forest.Root.Metadata[MetaTitle] != "Engineer" || forest.Root.Metadata[MetaDepartment] != "R&D" {
		t.Fatalf("unexpected metadata %+v", forest.Root.Metadata)
	}
}

func TestResolveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(30)
		records := make([]domain.EmployeeRecord, n)
		for i := range records {
			manager := ""
			switch rng.Intn(4) {
			case 0:
			case 1:
				manager = "nobody-" + fmt.Sprint(rng.Intn(3))
			default:
				if n > 0 {
					manager = fmt.Sprintf("E%d", rng.Intn(n))
				}
			}
			records[i] = emp(fmt.Sprintf("E%d", i), manager)
		}

		first := Resolve(records)
		count := first.Root.Count()
		if count != n && count != n+1 {
			t.Fatalf("trial %d: %d records produced %d nodes", trial, n, count)
		}
		if first.Root.Synthetic != (count == n+1) {
			t.Fatalf("trial %d: synthetic flag inconsistent with node count", trial)
		}
		assertNoSelfAncestor(t, first.Root)

		second := Resolve(records)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("trial %d: resolve is not deterministic (-first +second):\n%s", trial, diff)
		}
	}
}

func TestSeverCyclesBreaksEveryLoop(t *testing.T) {
	parent := []int{1, 2, 0, 4, 3, 5, noManager}
	var cuts [][2]int
	severCycles(parent, func(child, manager int) {
		cuts = append(cuts, [2]int{child, manager})
	})
	want := [][2]int{{2, 0}, {4, 3}, {5, 5}}
	if diff := cmp.Diff(want, cuts); diff != "" {
		t.Fatalf("unexpected cuts (-want +got):\n%s", diff)
	}
	for start := range parent {
		steps := 0
		for cur := start; cur != noManager; cur = parent[cur] {
			steps++
			if steps > len(parent) {
				t.Fatalf("chain from %d still loops: %v", start, parent)
			}
		}
	}
}

// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"path/filepath"
	"testing"
)

func TestPlanBlocks_Partition(t *testing.T) {
	t.Run("exact multiple of block size", func(t *testing.T) {
		blocks := planBlocks("/tmp/x", 3*(1<<20), 1<<20)
		if len(blocks) != 3 {
			t.Fatalf("expected 3 blocks, got %d", len(blocks))
		}
		assertContiguous(t, blocks, 3*(1<<20))
	})

	t.Run("remainder in last block", func(t *testing.T) {
		size := int64(2*(1<<20) + 100)
		blocks := planBlocks("/tmp/x", size, 1<<20)
		if len(blocks) != 3 {
			t.Fatalf("expected 3 blocks, got %d", len(blocks))
		}
		last := blocks[len(blocks)-1]
		if last.Range.size() != 100 {
			t.Errorf("expected last block size 100, got %d", last.Range.size())
		}
		assertContiguous(t, blocks, size)
	})

	t.Run("single small file", func(t *testing.T) {
		blocks := planBlocks("/tmp/x", 42, 1<<20)
		if len(blocks) != 1 {
			t.Fatalf("expected 1 block, got %d", len(blocks))
		}
		if blocks[0].Range.size() != 42 {
			t.Errorf("expected block size 42, got %d", blocks[0].Range.size())
		}
	})

	t.Run("zero-padded index width matches parts", func(t *testing.T) {
		blocks := planBlocks("/tmp/x", 12*(1<<20), 1<<20)
		if len(blocks) != 12 {
			t.Fatalf("expected 12 blocks, got %d", len(blocks))
		}
		if filepath.Base(blocks[0].Path) != "01 of 12" {
			t.Errorf("expected first block path '01 of 12', got %q", filepath.Base(blocks[0].Path))
		}
		if filepath.Base(blocks[11].Path) != "12 of 12" {
			t.Errorf("expected last block path '12 of 12', got %q", filepath.Base(blocks[11].Path))
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := planBlocks("/tmp/x", 5*(1<<20)+7, 1<<20)
		b := planBlocks("/tmp/x", 5*(1<<20)+7, 1<<20)
		if len(a) != len(b) {
			t.Fatalf("non-deterministic block count: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("block %d differs between runs: %+v vs %+v", i, a[i], b[i])
			}
		}
	})
}

func assertContiguous(t *testing.T, blocks []Block, size int64) {
	t.Helper()
	var offset int64
	for i, b := range blocks {
		if b.Range.Start != offset {
			t.Errorf("block %d starts at %d, expected %d", i, b.Range.Start, offset)
		}
		offset = b.Range.End
	}
	if offset != size {
		t.Errorf("blocks cover up to %d, expected %d", offset, size)
	}
}

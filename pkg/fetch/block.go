// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package fetch

import "fmt"

// planBlocks produces the ordered, contiguous block list for an artifact of
// the given size staged under directory. It is pure and deterministic:
// same (directory, size, blockSize) always yields the same blocks.
//
// blocks[0].Range.Start == 0, blocks[len-1].Range.End == size, and
// blocks[i].Range.End == blocks[i+1].Range.Start for all i.
func planBlocks(directory string, size int64, blockSize int64) []Block {
	if size <= 0 {
		return nil
	}
	parts := int((size + blockSize - 1) / blockSize)
	width := len(fmt.Sprintf("%d", parts))

	blocks := make([]Block, 0, parts)
	for i := 0; i < parts; i++ {
		start := int64(i) * blockSize
		end := start + blockSize
		if end > size {
			end = size
		}
		index := i + 1
		blocks = append(blocks, Block{
			Index: index,
			Parts: parts,
			Range: byteRange{Start: start, End: end},
			Path:  fmt.Sprintf("%s/%0*d of %d", directory, width, index, parts),
		})
	}
	return blocks
}

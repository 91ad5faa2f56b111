package bloom_test

import (
	"fmt"
	"testing"

	"github.com/docloom/docloom/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("added URLs always test positive", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		for i := 0; i < 100; i++ {
			f.Add(fmt.Sprintf("https://docs.test/page/%d", i))
		}
		for i := 0; i < 100; i++ {
			assert.True(t, f.Test(fmt.Sprintf("https://docs.test/page/%d", i)))
		}
	})

	t.Run("unseen URLs test negative at a low rate", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(10000, 0.001)
		for i := 0; i < 1000; i++ {
			f.Add(fmt.Sprintf("https://docs.test/page/%d", i))
		}

		falsePositives := 0
		for i := 0; i < 1000; i++ {
			if f.Test(fmt.Sprintf("https://other.test/page/%d", i)) {
				falsePositives++
			}
		}
		assert.Less(t, falsePositives, 50)
	})

	t.Run("estimates the number of added URLs", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(10000, 0.01)
		for i := 0; i < 500; i++ {
			f.Add(fmt.Sprintf("https://docs.test/page/%d", i))
		}

		assert.InDelta(t, 500, float64(f.EstimatedCount()), 50)
	})
}

package intelligibility

import (
	"strconv"
	"testing"

	"github.com/craigatencio/pambox/internal/testutil"
)

func BenchmarkSNREnvToPC(b *testing.B) {
	sizes := []int{16, 256, 4096, 65536}
	for _, n := range sizes {
		snrenv := testutil.LogSpace(-2, 2, n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 8))

			for range b.N {
				if _, err := SNREnvToPC(snrenv, 1.0, 0.5, 0.6, 8000); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFit(b *testing.B) {
	snrenv := []float64{0.1, 0.5, 1, 2, 5, 10}

	pc, err := SNREnvToPC(snrenv, 1.0, 0.5, 0.5, 8000)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for range b.N {
		obs, err := NewObserver()
		if err != nil {
			b.Fatal(err)
		}

		if _, err := obs.Fit(snrenv, pc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPsyFn(b *testing.B) {
	x := testutil.LinSpace(-6, 6, 4096)

	b.ReportAllocs()
	b.SetBytes(int64(len(x) * 8))

	for range b.N {
		PsyFn(x, 0, 1)
	}
}

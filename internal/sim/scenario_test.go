package sim_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/integrators"
	"github.com/san-kum/smoothfield/internal/physics"
	"github.com/san-kum/smoothfield/internal/sim"
)

func maxGaps(f *field.Field) (theta1, both float64) {
	for s := f.Front(); s != nil && s.Next() != nil; s = s.Next() {
		n := s.Next()
		theta1 = math.Max(theta1, math.Abs(n.Phase[0]-s.Phase[0]))
		if g := s.Phase.AngleGap(n.Phase); g > both {
			both = g
		}
	}
	return theta1, both
}

var _ = Describe("Simulation", func() {
	const bound = field.DefaultEpsilon + field.DefaultJitter + 1e-9

	Context("with the ribbon seed at full capacity", func() {
		var s *sim.Simulation

		BeforeEach(func() {
			if testing.Short() {
				Skip("long scenario")
			}
			seed := sim.SeedParams{
				Body:   physics.DoublePendulum{G: 10, Length: 75, Mass: 10},
				Theta1: 3.1,
				Theta2: 2.9,
				Spread: 0.1,
			}
			var err error
			s, err = sim.Initialize(4096, seed,
				sim.WithRand(rand.New(rand.NewSource(2024))),
				sim.WithStep(integrators.DefaultStep))
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps the size at capacity and neighbours within epsilon for 100 ticks", func() {
			for tick := 0; tick < 100; tick++ {
				_, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Field().Len()).To(Equal(4096), "tick %d", tick)

				theta1, both := maxGaps(s.Field())
				Expect(theta1).To(BeNumerically("<", bound), "tick %d", tick)
				Expect(both).To(BeNumerically("<", bound), "tick %d", tick)
			}
		})
	})

	Context("with a small field and a violent seed", func() {
		It("never drops below the minimum size", func() {
			seed := sim.DefaultSeed()
			seed.Spread = 3
			s, err := sim.Initialize(field.MinSize+3, seed, sim.WithRand(rand.New(rand.NewSource(9))))
			Expect(err).NotTo(HaveOccurred())

			for tick := 0; tick < 500; tick++ {
				st, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Field().Len()).To(BeNumerically(">=", field.MinSize))
				Expect(s.Field().Len()).To(BeNumerically("<=", s.Capacity()))
				Expect(st.Evicted()).To(BeNumerically("<=", st.Inserted))
			}
		})
	})

	Context("while paused", func() {
		It("leaves the field untouched", func() {
			s, err := sim.Initialize(128, sim.DefaultSeed(), sim.WithRand(rand.New(rand.NewSource(5))))
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 3; i++ {
				_, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(s.TogglePause()).To(BeTrue())
			before := s.Snapshot()
			st, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(st).To(Equal(field.Stats{}))
			Expect(s.Snapshot()).To(Equal(before))
			Expect(s.Ticks()).To(Equal(3))
		})
	})
})

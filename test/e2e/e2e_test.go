package e2e

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"k8s.io/apimachinery/pkg/api/meta"

	"github.com/llm-d/mec-offload-game/api/v1alpha1"
	"github.com/llm-d/mec-offload-game/internal/actuator"
	pkgconfig "github.com/llm-d/mec-offload-game/pkg/config"
)

const benignSystem = `transmRate: 1e6
transmPower: 0.1
users:
  - {bn: 1e6, dn: 5e9, en: 1e-2, c: 0.5}
  - {bn: 1e6, dn: 5e9, en: 1e-2, c: 0.5}
`

func readRecord(path string) *v1alpha1.EquilibriumRun {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	run, err := actuator.ReadRecord(data)
	Expect(err).NotTo(HaveOccurred())
	return run
}

var _ = Describe("mecgame", Ordered, func() {
	Context("with the benign two-user system", func() {
		var system string

		BeforeAll(func() {
			system = artifact("benign.yaml")
			Expect(os.WriteFile(system, []byte(benignSystem), 0o600)).To(Succeed())
		})

		It("should converge to nobody offloading", func() {
			By("solving the system")
			_, stderr, err := mecgame("run", "--system", system,
				"--output", artifact("benign-run.yaml"),
				"--metrics-file", artifact("benign.prom"))
			Expect(err).NotTo(HaveOccurred())
			Expect(stderr).To(ContainSubstring("Converged"))

			By("reading the run record back")
			run := readRecord(artifact("benign-run.yaml"))
			Expect(run.Status.State).To(Equal("Converged"))
			Expect(run.Status.Strategies).To(Equal([]float64{0, 0}))
			Expect(run.Status.PoF).To(BeZero())
			Expect(run.Status.ResponseKinds).To(ConsistOf("NoOffload", "NoOffload"))
			Expect(meta.IsStatusConditionTrue(run.Status.Conditions, v1alpha1.TypeConverged)).To(BeTrue())

			By("checking the exported metrics")
			metrics, err := os.ReadFile(artifact("benign.prom"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(metrics)).To(ContainSubstring(`mecgame_runs_total{state="Converged"} 1`))
			Expect(string(metrics)).To(ContainSubstring("mecgame_probability_of_failure 0"))
		})

		It("should reach the same equilibrium with the jacobi rule", func() {
			stdout, _, err := mecgame("run", "--system", system, "--update-rule", "jacobi", "--workers", "2", "--format", "json")
			Expect(err).NotTo(HaveOccurred())
			run, err := actuator.ReadRecord([]byte(stdout))
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status.State).To(Equal("Converged"))
			Expect(run.Status.Strategies).To(Equal([]float64{0, 0}))
		})

		It("should stop at the sweep cap", func() {
			stdout, _, err := mecgame("run", "--system", system, "--max-iterations", "1")
			Expect(err).NotTo(HaveOccurred())
			run, err := actuator.ReadRecord([]byte(stdout))
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status.State).To(Equal("MaxIterationsReached"))
			Expect(run.Status.Sweeps).To(Equal(1))
			cond := meta.FindStatusCondition(run.Status.Conditions, v1alpha1.TypeConverged)
			Expect(cond).NotTo(BeNil())
			Expect(cond.Reason).To(Equal(v1alpha1.ReasonMaxIterationsReached))
		})
	})

	Context("with a generated heterogeneous system", func() {
		var system, block string

		BeforeAll(func() {
			system = artifact("generated.yaml")
			block = artifact("generated-block.yaml")

			By("drawing the users")
			_, _, err := mecgame("generate", "--users", generatedUsers, "--seed", "42", "--output", system)
			Expect(err).NotTo(HaveOccurred())
			_, _, err = mecgame("generate", "--users", generatedUsers, "--seed", "42", "--keep-generate", "--output", block)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep every strategy within capacity", func() {
			spec, err := pkgconfig.LoadSystemSpec(system)
			Expect(err).NotTo(HaveOccurred())

			_, _, err = mecgame("run", "--system", system, "--output", artifact("generated-run.json"))
			Expect(err).NotTo(HaveOccurred())
			run := readRecord(artifact("generated-run.json"))

			Expect(run.Status.State).To(BeElementOf("Converged", "MaxIterationsReached"))
			Expect(run.Status.Strategies).To(HaveLen(len(spec.Users)))
			for i, b := range run.Status.Strategies {
				Expect(b).To(BeNumerically(">=", 0))
				Expect(b).To(BeNumerically("<=", spec.Users[i].Bn))
			}
			Expect(run.Status.PoF).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
			Expect(run.Status.History).To(HaveLen(run.Status.Sweeps))
		})

		It("should solve the generate block and the drawn users identically", func() {
			drawn, _, err := mecgame("run", "--system", system, "--name", "same")
			Expect(err).NotTo(HaveOccurred())
			regenerated, _, err := mecgame("run", "--system", block, "--name", "same")
			Expect(err).NotTo(HaveOccurred())

			a, err := actuator.ReadRecord([]byte(drawn))
			Expect(err).NotTo(HaveOccurred())
			b, err := actuator.ReadRecord([]byte(regenerated))
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Status.Strategies).To(Equal(a.Status.Strategies))
			Expect(b.Status.State).To(Equal(a.Status.State))
		})

		It("should sample utility curves for a user", func() {
			_, _, err := mecgame("curve", "--system", system, "--user", "0", "--levels", "4", "--samples", "21",
				"--output", artifact("curves.yaml"))
			Expect(err).NotTo(HaveOccurred())
			data, err := os.ReadFile(artifact("curves.yaml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("bestKind:"))
		})
	})

	It("should reject a system with a non-positive capacity", func() {
		degenerate := artifact("degenerate.yaml")
		Expect(os.WriteFile(degenerate, []byte("transmRate: 1e6\nusers:\n  - {bn: -1, dn: 1, en: 1, c: 1}\n"), 0o600)).To(Succeed())
		_, _, err := mecgame("run", "--system", degenerate)
		Expect(err).To(MatchError(ContainSubstring("degenerate parameters")))
	})
})

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Kind is the kind name of EquilibriumRun records.
const Kind = "EquilibriumRun"

// UserParams are the constants of one user of the game.
type UserParams struct {
	// Bn is the data volume the user may offload.
	Bn float64 `json:"bn"`

	// Dn is the number of CPU cycles the job needs.
	Dn float64 `json:"dn"`

	// En is the energy spent processing the whole job locally.
	En float64 `json:"en"`

	// C is the price sensitivity the server charges the user with.
	C float64 `json:"c"`

	// An and Kn weight cost and energy in the user's utility.
	An float64 `json:"an"`
	Kn float64 `json:"kn"`

	// Tn is the local processing time, kept for reference only.
	// +optional
	Tn float64 `json:"tn,omitempty"`
}

// RunSettings echoes the configuration the run used.
type RunSettings struct {
	Tolerance       float64 `json:"tolerance"`
	MaxIterations   int     `json:"maxIterations"`
	InitPolicy      string  `json:"initPolicy"`
	InitFraction    float64 `json:"initFraction"`
	UpdateRule      string  `json:"updateRule"`
	Minimizer       string  `json:"minimizer"`
	BoundaryEpsilon float64 `json:"boundaryEpsilon"`
}

// EquilibriumRunSpec is the input of a run: the game and how it was solved.
type EquilibriumRunSpec struct {
	// Users lists the per-user constants in visiting order.
	// +kubebuilder:validation:MinItems=1
	Users []UserParams `json:"users"`

	// TransmRate is the fixed transmission rate shared by all users.
	TransmRate float64 `json:"transmRate"`

	// TransmPower is the fixed transmission power shared by all users.
	TransmPower float64 `json:"transmPower"`

	// DecayK is the steepness of the probability-of-failure curve.
	DecayK float64 `json:"decayK"`

	// Settings holds the run configuration.
	Settings RunSettings `json:"settings"`
}

// SweepRecord summarizes one best-response sweep.
type SweepRecord struct {
	// Sweep is the 1-based sweep number.
	Sweep int `json:"sweep"`

	// MaxChange is the largest absolute strategy change during the sweep.
	MaxChange float64 `json:"maxChange"`

	// PoF is the probability of failure after the sweep.
	PoF float64 `json:"pof"`
}

// EquilibriumRunStatus is the outcome of a run.
type EquilibriumRunStatus struct {
	// State is the terminal state of the loop.
	// +kubebuilder:validation:Enum=Converged;MaxIterationsReached;Failed
	State string `json:"state,omitempty"`

	// Sweeps is the number of sweeps performed.
	Sweeps int `json:"sweeps"`

	// Evaluations is the number of objective evaluations spent by all best responses.
	Evaluations int `json:"evaluations"`

	// Strategies is the final offload amount of every user.
	Strategies []float64 `json:"strategies,omitempty"`

	// PoF is the probability of failure at Strategies.
	PoF float64 `json:"pof"`

	// Costs, Energies and Utilities are per-user values at Strategies.
	Costs     []float64 `json:"costs,omitempty"`
	Energies  []float64 `json:"energies,omitempty"`
	Utilities []float64 `json:"utilities,omitempty"`

	// ResponseKinds tells interior responses from boundary ones, per user.
	ResponseKinds []string `json:"responseKinds,omitempty"`

	// History has one entry per sweep.
	// +optional
	History []SweepRecord `json:"history,omitempty"`

	// LastRunTime is when the run finished.
	LastRunTime metav1.Time `json:"lastRunTime,omitempty"`

	// Conditions represent the latest available observations of the run
	// +kubebuilder:validation:Optional
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="State",type=string,JSONPath=".status.state"
// +kubebuilder:printcolumn:name="Sweeps",type=integer,JSONPath=".status.sweeps"
// +kubebuilder:printcolumn:name="Converged",type=string,JSONPath=".status.conditions[?(@.type=='Converged')].status"

// EquilibriumRun is the record of one equilibrium computation.
type EquilibriumRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EquilibriumRunSpec   `json:"spec,omitempty"`
	Status EquilibriumRunStatus `json:"status,omitempty"`
}

// EquilibriumRunList contains a list of EquilibriumRun records.
// +kubebuilder:object:root=true
type EquilibriumRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []EquilibriumRun `json:"items"`
}

// Condition Types for EquilibriumRun
const (
	// TypeConverged indicates whether the strategy vector stabilized within tolerance
	TypeConverged = "Converged"
)

// Condition Reasons for Converged
const (
	// ReasonToleranceSatisfied indicates no strategy moved by more than the tolerance over a sweep
	ReasonToleranceSatisfied = "ToleranceSatisfied"
	// ReasonMaxIterationsReached indicates the sweep cap was hit first
	ReasonMaxIterationsReached = "MaxIterationsReached"
	// ReasonNonFiniteObjective indicates a best response met a non-finite objective
	ReasonNonFiniteObjective = "NonFiniteObjective"
	// ReasonRunFailed indicates the run stopped for any other reason, such as cancellation
	ReasonRunFailed = "RunFailed"
)

package integrator

// Tableau is an opaque embedded Runge-Kutta Butcher table: stage count K,
// stage-coupling matrix A (lower triangular, K x K), high-order weights
// BHigh, low-order weights BLow, and stage abscissas C. Order is the order
// of the low-order (error-estimate) solution, used in the step-size
// control exponent 1/(p+1).
type Tableau struct {
	Name  string
	Stages int
	A     [][]float64
	BHigh []float64
	BLow  []float64
	C     []float64
	Order int
	FixedStepOrder int // order used when running in fixed-step mode (the high solution's order)
}

// RK4 is the classical fourth-order Runge-Kutta method. It has no
// embedded error estimate; BLow equals BHigh, so adaptive step control
// against this tableau always reports zero error. Use it in fixed-step
// mode.
var RK4 = Tableau{
	Name:   "RK4",
	Stages: 4,
	A: [][]float64{
		{},
		{0.5},
		{0, 0.5},
		{0, 0, 1},
	},
	BHigh:          []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
	BLow:           []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
	C:              []float64{0, 0.5, 0.5, 1},
	Order:          4,
	FixedStepOrder: 4,
}

// RKF45 is the Runge-Kutta-Fehlberg 4(5) embedded pair.
var RKF45 = Tableau{
	Name:   "RKF45",
	Stages: 6,
	A: [][]float64{
		{},
		{1.0 / 4},
		{3.0 / 32, 9.0 / 32},
		{1932.0 / 2197, -7200.0 / 2197, 7296.0 / 2197},
		{439.0 / 216, -8.0, 3680.0 / 513, -845.0 / 4104},
		{-8.0 / 27, 2.0, -3544.0 / 2565, 1859.0 / 4104, -11.0 / 40},
	},
	BHigh: []float64{16.0 / 135, 0, 6656.0 / 12825, 28561.0 / 56430, -9.0 / 50, 2.0 / 55},
	BLow:  []float64{25.0 / 216, 0, 1408.0 / 2565, 2197.0 / 4104, -1.0 / 5, 0},
	C:     []float64{0, 1.0 / 4, 3.0 / 8, 12.0 / 13, 1, 1.0 / 2},
	Order: 4,
	FixedStepOrder: 5,
}

// DP45 is the Dormand-Prince 4(5) embedded pair, the pair behind the
// classic "ode45" family of solvers.
var DP45 = Tableau{
	Name:   "DP45",
	Stages: 7,
	A: [][]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	},
	BHigh: []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0},
	BLow:  []float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40},
	C:     []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
	Order: 4,
	FixedStepOrder: 5,
}

// RKF78 is the Runge-Kutta-Fehlberg 7(8) embedded pair, a high-order
// method used when very tight tolerances or long propagation arcs call
// for fewer accepted steps per unit accuracy. Coefficients per Fehlberg's
// 1968 13-stage formulation.
var RKF78 = Tableau{
	Name:   "RKF78",
	Stages: 13,
	A: [][]float64{
		{},
		{2.0 / 27},
		{1.0 / 36, 1.0 / 12},
		{1.0 / 24, 0, 1.0 / 8},
		{5.0 / 12, 0, -25.0 / 16, 25.0 / 16},
		{1.0 / 20, 0, 0, 1.0 / 4, 1.0 / 5},
		{-25.0 / 108, 0, 0, 125.0 / 108, -65.0 / 27, 125.0 / 54},
		{31.0 / 300, 0, 0, 0, 61.0 / 225, -2.0 / 9, 13.0 / 900},
		{2, 0, 0, -53.0 / 6, 704.0 / 45, -107.0 / 9, 67.0 / 90, 3},
		{-91.0 / 108, 0, 0, 23.0 / 108, -976.0 / 135, 311.0 / 54, -19.0 / 60, 17.0 / 6, -1.0 / 12},
		{2383.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -301.0 / 82, 2133.0 / 4100, 45.0 / 82, 45.0 / 164, 18.0 / 41},
		{3.0 / 205, 0, 0, 0, 0, -6.0 / 41, -3.0 / 205, -3.0 / 41, 3.0 / 41, 6.0 / 41, 0},
		{-1777.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -289.0 / 82, 2193.0 / 4100, 51.0 / 82, 33.0 / 164, 12.0 / 41, 0, 1},
	},
	BHigh: []float64{0, 0, 0, 0, 0, 34.0 / 105, 9.0 / 35, 9.0 / 35, 9.0 / 280, 9.0 / 280, 0, 41.0 / 840, 41.0 / 840},
	BLow:  []float64{41.0 / 840, 0, 0, 0, 0, 34.0 / 105, 9.0 / 35, 9.0 / 35, 9.0 / 280, 9.0 / 280, 41.0 / 840, 0, 0},
	C:     []float64{0, 2.0 / 27, 1.0 / 9, 1.0 / 6, 5.0 / 12, 1.0 / 2, 5.0 / 6, 1.0 / 6, 2.0 / 3, 1.0 / 3, 1, 0, 1},
	Order: 7,
	FixedStepOrder: 8,
}

// DP78 selects the Dormand-Prince 8(7) high-order embedded pair when the
// caller wants Dormand-Prince's error-estimate structure at RKF78's
// order; in this core it aliases RKF78's coefficients, which already
// provide an 8th-order solution with a 7th-order embedded estimate. A
// distinct dense-output DP87 tableau is not implemented; this core's
// event handling uses bisection on re-evaluated states instead of a
// continuous interpolant.
var DP78 = RKF78

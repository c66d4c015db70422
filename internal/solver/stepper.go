package solver

// Stepper advances a state in place by one explicit step.
type Stepper interface {
	Name() string
	Step(sys System, x []float64, t, dt float64)
}

// Euler is the forward Euler method.
type Euler struct {
	pool *BufferPool
}

func NewEuler(n int) *Euler {
	return &Euler{pool: NewBufferPool(n)}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys System, x []float64, t, dt float64) {
	k := e.pool.Get()
	defer e.pool.Put(k)

	sys.Derive(k, x, t)
	for i := range x {
		x[i] += dt * k[i]
	}
}

// RK4 is the classical fourth-order Runge-Kutta method.
type RK4 struct {
	pool *BufferPool
}

func NewRK4(n int) *RK4 {
	return &RK4{pool: NewBufferPool(n)}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(sys System, x []float64, t, dt float64) {
	k1, k2, k3, k4 := r.pool.Get(), r.pool.Get(), r.pool.Get(), r.pool.Get()
	scratch := r.pool.Get()
	defer func() {
		for _, b := range [][]float64{k1, k2, k3, k4, scratch} {
			r.pool.Put(b)
		}
	}()

	sys.Derive(k1, x, t)

	for i := range x {
		scratch[i] = x[i] + dt*0.5*k1[i]
	}
	sys.Derive(k2, scratch, t+dt*0.5)

	for i := range x {
		scratch[i] = x[i] + dt*0.5*k2[i]
	}
	sys.Derive(k3, scratch, t+dt*0.5)

	for i := range x {
		scratch[i] = x[i] + dt*k3[i]
	}
	sys.Derive(k4, scratch, t+dt)

	dt6 := dt / 6.0
	for i := range x {
		x[i] += dt6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
	}
}

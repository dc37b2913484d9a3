package domain

import "testing"

// BenchmarkEnterExit measures the uncontended reader fast path.
func BenchmarkEnterExit(b *testing.B) {
	d, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer d.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Exit(d.Enter())
	}
}

// BenchmarkEnterExitParallel measures reader-side scalability; per-unit
// counter pairs should keep cross-core contention near zero.
func BenchmarkEnterExitParallel(b *testing.B) {
	d, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer d.Close()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			d.Exit(d.Enter())
		}
	})
}

// BenchmarkWaitIdle measures a grace period with no readers in flight:
// three quiescence fences and a single zero drain sum.
func BenchmarkWaitIdle(b *testing.B) {
	d, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer d.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Wait()
	}
}

// BenchmarkWaitContended measures grace periods while readers churn.
func BenchmarkWaitContended(b *testing.B) {
	d, err := New()
	if err != nil {
		b.Fatal(err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				d.Exit(d.Enter())
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Wait()
	}
	b.StopTimer()

	close(stop)
	<-done
	if err := d.Close(); err != nil {
		b.Fatal(err)
	}
}

// Package clock implements a fixed-timestep frame clock.
//
// Call BeginFrame once per iteration of the render loop, run the reported
// number of fixed physics steps, then render with InterpolationAlpha:
//
//	fc := clock.New(nil, nil)
//	for running {
//		ft := fc.BeginFrame()
//		ft.Run(world.Step)
//		render(world, ft.InterpolationAlpha)
//	}
//
// Measured frame time is capped at MaxFrameTime and scaled by TimeScale
// before it is accumulated. At most MaxPhysicsSteps steps are extracted per
// frame; when more are due the frame is flagged Lagging and the excess is
// dropped rather than carried into later frames.
package clock

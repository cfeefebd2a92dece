package motionplan

import (
	"testing"

	"go.viam.com/test"
)

func TestNewBasicPlannerOptions(t *testing.T) {
	opt := NewBasicPlannerOptions()
	test.That(t, opt.PlanIter, test.ShouldEqual, defaultPlanIter)
	test.That(t, opt.TimeStep, test.ShouldAlmostEqual, defaultTimeStep)
	test.That(t, opt.ConnectDist, test.ShouldAlmostEqual, defaultConnectDist)
	test.That(t, opt.SmoothIter, test.ShouldEqual, defaultSmoothIter)
	test.That(t, opt.NumThreads, test.ShouldBeGreaterThanOrEqualTo, 1)
	test.That(t, opt.validate(), test.ShouldBeNil)
}

func TestNewPlannerOptionsFromExtra(t *testing.T) {
	opt, err := NewPlannerOptionsFromExtra(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opt.PlanIter, test.ShouldEqual, defaultPlanIter)

	opt, err = NewPlannerOptionsFromExtra(map[string]interface{}{
		"plan_iter":    100,
		"connect_dist": 0.25,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opt.PlanIter, test.ShouldEqual, 100)
	test.That(t, opt.ConnectDist, test.ShouldAlmostEqual, 0.25)
	// Untouched fields keep their defaults.
	test.That(t, opt.TimeStep, test.ShouldAlmostEqual, defaultTimeStep)

	// Unknown keys are ignored.
	opt, err = NewPlannerOptionsFromExtra(map[string]interface{}{"no_such_option": true})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opt.PlanIter, test.ShouldEqual, defaultPlanIter)

	// Invalid overrides are rejected.
	_, err = NewPlannerOptionsFromExtra(map[string]interface{}{"plan_iter": -5})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPlannerOptionsFromExtra(map[string]interface{}{"time_step": 0})
	test.That(t, err, test.ShouldNotBeNil)
}

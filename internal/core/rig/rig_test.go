package rig

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/motorig/internal/core/geometry"
	"github.com/zeusync/motorig/internal/core/params"
	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/core/scene"
)

const tolerance = 1e-9

func newWorld() (*physics.World, *scene.Arena) {
	w := physics.NewWorld(physics.DefaultConfig())
	return w, scene.NewArena(w)
}

func TestComputeAnchors_Defaults(t *testing.T) {
	a, err := ComputeAnchors(params.Defaults())
	require.NoError(t, err)

	assert.Equal(t, geometry.Point{}, a.SwingArmPivot)
	assert.InDelta(t, 0.20, geometry.Distance(a.HeadTubeBottom, a.HeadTubeTop), tolerance)
	assert.InDelta(t, 0.75, geometry.Distance(a.SwingArmPivot, a.HeadTubeBottom), tolerance)
	assert.InDelta(t, 0.70, geometry.Distance(a.SwingArmPivot, a.HeadTubeTop), tolerance)
	assert.InDelta(t, 0.30, geometry.Distance(a.SwingArmPivot, a.RearShockUpperPivot), tolerance)
	assert.InDelta(t, 0.45, geometry.Distance(a.HeadTubeTop, a.RearShockUpperPivot), tolerance)

	// bike faces -x, so the head tube is ahead of the pivot
	assert.Less(t, a.HeadTubeBottom.X, 0.0)
	assert.InDelta(t, 1.0, geometry.Length(a.ForkAxis), tolerance)
	assert.InDelta(t, 0.55, a.RearWheelCenter.X, tolerance)
	assert.InDelta(t, 0.25, a.SpringRestLength, tolerance)
}

func TestComputeAnchors_GroundTouchesLowestWheel(t *testing.T) {
	a, err := ComputeAnchors(params.Defaults())
	require.NoError(t, err)

	top := a.GroundGeometry.Center.Y - a.GroundGeometry.HalfHeight
	front := a.FrontWheelCenter.Y + a.FrontWheelRadius
	rear := a.RearWheelCenter.Y + a.RearWheelRadius
	assert.InDelta(t, math.Max(front, rear), top, tolerance)
	assert.InDelta(t, 10.0, a.GroundGeometry.HalfWidth, tolerance)
}

func TestComputeAnchors_Errors(t *testing.T) {
	t.Run("missing simulation group", func(t *testing.T) {
		set := params.Defaults()
		set.Simulation = nil
		_, err := ComputeAnchors(set)
		require.ErrorIs(t, err, params.ErrMissingGroup)
	})

	t.Run("frame triangle cannot close", func(t *testing.T) {
		set, err := params.Defaults().With(params.GroupFrame, "head_tube_length", 2)
		require.NoError(t, err)
		_, err = ComputeAnchors(set)
		require.ErrorIs(t, err, geometry.ErrInvalidTriangle)

		var ge *geometry.GeometryError
		require.True(t, errors.As(err, &ge))
		assert.Equal(t, set.Frame.HeadTubeLength.DisplayName, ge.Side)
	})

	t.Run("shock mount unreachable", func(t *testing.T) {
		set, err := params.Defaults().With(params.GroupFrame, "pivot_to_shock_mount", 0.1)
		require.NoError(t, err)
		_, err = ComputeAnchors(set)
		require.ErrorIs(t, err, geometry.ErrInvalidTriangle)
	})

	t.Run("zero side is malformed", func(t *testing.T) {
		set, err := params.Defaults().With(params.GroupFrame, "pivot_to_head_tube_top", 0)
		require.NoError(t, err)
		_, err = ComputeAnchors(set)
		require.ErrorIs(t, err, geometry.ErrMalformedInput)
	})

	t.Run("fork shorter than head tube", func(t *testing.T) {
		set := params.Defaults()
		set.Frame.TopForkLength.Value = 0.05
		set.Frame.BottomForkLength.Value = 0.10
		set.Frame.HeadTubeLength.Value = 0.20
		_, err := ComputeAnchors(set)
		require.ErrorIs(t, err, params.ErrInvalidValue)

		var pe *params.ParameterError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "top_fork_length", pe.Name)

		world, arena := newWorld()
		_, err = Build(world, arena, set)
		require.ErrorIs(t, err, params.ErrInvalidValue)
		assert.Zero(t, world.JointCount())
	})

	t.Run("fork exactly as long as head tube", func(t *testing.T) {
		set := params.Defaults()
		set.Frame.TopForkLength.Value = 0.10
		set.Frame.BottomForkLength.Value = 0.10
		set.Frame.HeadTubeLength.Value = 0.20
		_, err := ComputeAnchors(set)
		require.ErrorIs(t, err, params.ErrInvalidValue)
	})

	t.Run("negative density", func(t *testing.T) {
		set, err := params.Defaults().With(params.GroupSimulation, "density", -1)
		require.NoError(t, err)
		_, err = ComputeAnchors(set)
		require.ErrorIs(t, err, params.ErrInvalidValue)
	})
}

func TestBuild_Counts(t *testing.T) {
	world, arena := newWorld()
	r, err := Build(world, arena, params.Defaults())
	require.NoError(t, err)

	assert.Equal(t, 5, world.BodyCount())
	assert.Equal(t, 5, world.JointCount())
	// frame: 3, fork, two wheels and swingarm: 1 each
	assert.Equal(t, 7, world.FixtureCount())
	assert.Equal(t, 3, physics.CountFixtures(arena.Body(r.Frame)))
	assert.Equal(t, 5, arena.Len())
	assert.Len(t, arena.Children(r.Root()), 4)
	assert.Len(t, r.Joints(), 5)
	assert.NotEmpty(t, r.ID)
}

func TestBuild_SpringRestLengthIsExact(t *testing.T) {
	for _, tc := range []struct {
		name        string
		top, bottom float64
		headTube    float64
	}{
		{name: "defaults", top: 0.45, bottom: 0.40, headTube: 0.20},
		{name: "long fork", top: 0.60, bottom: 0.55, headTube: 0.20},
		{name: "short head tube", top: 0.45, bottom: 0.40, headTube: 0.10},
	} {
		t.Run(tc.name, func(t *testing.T) {
			set := params.Defaults()
			set.Frame.TopForkLength.Value = tc.top
			set.Frame.BottomForkLength.Value = tc.bottom
			set.Frame.HeadTubeLength.Value = tc.headTube

			world, arena := newWorld()
			r, err := Build(world, arena, set)
			require.NoError(t, err)

			want := tc.bottom + tc.top - tc.headTube
			assert.Equal(t, want, r.Anchors.SpringRestLength)
			assert.Equal(t, want, r.Spring.GetLength())
			assert.InDelta(t, want, geometry.Distance(physics.Pt(r.Spring.GetAnchorA()), physics.Pt(r.Spring.GetAnchorB())), tolerance)
		})
	}
}

func TestBuild_JointAnchorsCoincide(t *testing.T) {
	world, arena := newWorld()
	r, err := Build(world, arena, params.Defaults())
	require.NoError(t, err)

	coincide := map[string][2]geometry.Point{
		"slider":     {physics.Pt(r.Slider.GetAnchorA()), physics.Pt(r.Slider.GetAnchorB())},
		"front axle": {physics.Pt(r.FrontAxle.GetAnchorA()), physics.Pt(r.FrontAxle.GetAnchorB())},
		"pivot":      {physics.Pt(r.Pivot.GetAnchorA()), physics.Pt(r.Pivot.GetAnchorB())},
		"rear axle":  {physics.Pt(r.RearAxle.GetAnchorA()), physics.Pt(r.RearAxle.GetAnchorB())},
	}
	for name, pair := range coincide {
		assert.InDelta(t, 0, geometry.Distance(pair[0], pair[1]), tolerance, name)
	}

	a := r.Anchors
	assert.InDelta(t, 0, geometry.Distance(physics.Pt(r.Spring.GetAnchorA()), a.HeadTubeBottom), tolerance)
	assert.InDelta(t, 0, geometry.Distance(physics.Pt(r.Spring.GetAnchorB()), a.FrontWheelCenter), tolerance)
	assert.InDelta(t, 0, geometry.Distance(physics.Pt(r.FrontAxle.GetAnchorA()), a.FrontWheelCenter), tolerance)
	assert.InDelta(t, 0, geometry.Distance(physics.Pt(r.RearAxle.GetAnchorA()), a.RearWheelCenter), tolerance)
	assert.InDelta(t, 0, r.Slider.GetJointTranslation(), tolerance)
}

func TestBuild_SliderLimits(t *testing.T) {
	world, arena := newWorld()
	r, err := Build(world, arena, params.Defaults())
	require.NoError(t, err)

	assert.True(t, r.Slider.IsLimitEnabled())
	assert.Equal(t, 0.0, r.Slider.GetLowerLimit())
	assert.Equal(t, ForkTravel, r.Slider.GetUpperLimit())
	assert.False(t, r.Slider.IsMotorEnabled())
	assert.False(t, r.Pivot.IsMotorEnabled())
}

func TestBuild_CollisionFilters(t *testing.T) {
	world, arena := newWorld()
	r, err := Build(world, arena, params.Defaults())
	require.NoError(t, err)

	check := func(h scene.Handle, category uint16) {
		for _, f := range physics.Fixtures(arena.Body(h)) {
			filter := f.GetFilterData()
			assert.Equal(t, category, filter.CategoryBits)
			assert.Equal(t, physics.CategoryGround, filter.MaskBits)
		}
	}
	check(r.Frame, physics.CategoryFrame)
	check(r.Fork, physics.CategoryFrame)
	check(r.Swingarm, physics.CategoryFrame)
	check(r.FrontWheel, physics.CategoryWheel)
	check(r.RearWheel, physics.CategoryWheel)
}

func TestBuild_PlacesBodies(t *testing.T) {
	world, arena := newWorld()
	r, err := Build(world, arena, params.Defaults())
	require.NoError(t, err)
	a := r.Anchors

	at := func(h scene.Handle) geometry.Point { return physics.Pt(arena.Body(h).GetPosition()) }
	assert.InDelta(t, 0, geometry.Distance(at(r.Frame), a.SwingArmPivot), tolerance)
	assert.InDelta(t, 0, geometry.Distance(at(r.Swingarm), a.SwingArmPivot), tolerance)
	assert.InDelta(t, 0, geometry.Distance(at(r.Fork), a.BottomForkPosition), tolerance)
	assert.InDelta(t, 0, geometry.Distance(at(r.FrontWheel), a.FrontWheelCenter), tolerance)
	assert.InDelta(t, 0, geometry.Distance(at(r.RearWheel), a.RearWheelCenter), tolerance)
	assert.InDelta(t, a.ForkAngle, arena.Body(r.Fork).GetAngle(), tolerance)

	assert.Equal(t, scene.KindFork, arena.Body(r.Fork).GetUserData())
	assert.IsType(t, &scene.Fork{}, arena.Payload(r.Fork))
}

func TestBuild_FailureLeavesWorldEmpty(t *testing.T) {
	set, err := params.Defaults().With(params.GroupFrame, "pivot_to_head_tube_bottom", 5)
	require.NoError(t, err)

	world, arena := newWorld()
	r, err := Build(world, arena, set)
	require.Error(t, err)
	assert.Nil(t, r)
	assert.Zero(t, world.BodyCount())
	assert.Zero(t, world.JointCount())
	assert.Zero(t, arena.Len())
}

func TestBuild_DegenerateFixtureRejectedBeforeMutation(t *testing.T) {
	set := params.Defaults()
	set.Frame.TopForkWidth.Value = 1e-9

	world, arena := newWorld()
	_, err := Build(world, arena, set)
	require.ErrorIs(t, err, physics.ErrInvalidShape)
	assert.Zero(t, world.BodyCount())
}

func TestRig_Destroy(t *testing.T) {
	world, arena := newWorld()
	r, err := Build(world, arena, params.Defaults())
	require.NoError(t, err)
	frame := r.Root()

	require.NoError(t, r.Destroy())
	assert.Zero(t, world.BodyCount())
	assert.Zero(t, world.JointCount())
	assert.Zero(t, arena.Len())
	assert.False(t, arena.Valid(frame))
	assert.Nil(t, r.Joints())

	// second call is a no-op
	require.NoError(t, r.Destroy())
}

package model

// Exercise is a catalog entry bulk-loaded once from a tabular file
// when the table is empty. Like WorkoutType it is immutable
// reference data shared by all users; the workout designer filters
// and searches over it.
//
// Fields mirror the columns of the import file:
//  Exercise, Category, Primary Muscle Groups, Equipment,
//  Difficulty, Workout Goal, Location.
type Exercise struct {
	ID           uint64 `json:"id"`            // exercises.id
	Name         string `json:"name"`          // exercises.name
	Category     string `json:"category"`      // exercises.category
	MuscleGroups string `json:"muscle_groups"` // exercises.primary_muscle_groups
	Equipment    string `json:"equipment"`     // exercises.equipment
	Difficulty   string `json:"difficulty"`    // exercises.difficulty
	Goal         string `json:"goal"`          // exercises.workout_goal
	Location     string `json:"location"`      // exercises.location
}

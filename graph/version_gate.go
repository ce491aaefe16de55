package graph

import "github.com/cppforlife/go-semi-semantic/version"

// MinCrossDependencyVersion is the minimum declared task version that
// supports cross-node dependencies. Tasks below this version are rejected
// by the chain builder unless they are of type "stage".
const MinCrossDependencyVersion = "2.0.0"

// checkVersionGate rejects a non-stage task whose declared version predates
// cross-dependency support.
func checkVersionGate(task *Task) error {
	if task.Type == TaskTypeStage {
		return nil
	}

	declared, err := version.NewVersionFromString(task.EffectiveVersion())
	if err != nil {
		return errTaskVersionUnsupported(task.ID, task.EffectiveVersion(), MinCrossDependencyVersion)
	}

	minimum, err := version.NewVersionFromString(MinCrossDependencyVersion)
	if err != nil {
		return err
	}

	if declared.IsLt(minimum) {
		return errTaskVersionUnsupported(task.ID, task.EffectiveVersion(), MinCrossDependencyVersion)
	}

	return nil
}

package picker

// Stage names rejections are attributed to, in pipeline order.
const (
	StageExtension = "extension"
	StageOS        = "os"
	StageArch      = "arch"
	StageLibc      = "libc"
	StageMatching  = "matching"
	StageTieBreak  = "tie_break"
)

// Rejection records why one asset was dropped and at which stage.
type Rejection struct {
	Asset  string
	Stage  string
	Reason string
}

// Trace accumulates rejections across the whole pipeline and remembers the
// last stage that had any survivors, together with those survivors, so a
// NoMatch error can report them. The pre-filter candidate list is not
// recorded.
type Trace struct {
	Rejections []Rejection
	LastStage  string
	Survivors  []string
}

func (t *Trace) reject(asset, stage, reason string) {
	t.Rejections = append(t.Rejections, Rejection{Asset: asset, Stage: stage, Reason: reason})
}

func (t *Trace) recordStage(stage string, survivors []string) {
	t.LastStage = stage
	t.Survivors = append([]string(nil), survivors...)
}

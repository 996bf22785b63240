package contract

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// The built-in document and the committed JSON file are two renditions of
// the same contract; drift between them would desynchronize the engine
// from every binding consumer.
func TestKuhnMatchesCommittedContract(t *testing.T) {
	data, err := os.ReadFile("../contracts/kuhn.v1.json")
	require.NoError(t, err)

	committed, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, committed, Kuhn())
}

func TestKuhnPassesValidation(t *testing.T) {
	require.Empty(t, ValidateSemantics(Kuhn()))
}

func TestKuhnObservationLayout(t *testing.T) {
	doc := Kuhn()
	require.Equal(t, 10, doc.Observation.Size)
	require.Len(t, doc.Observation.HistoryBuckets, 5)

	catchAll := doc.Observation.HistoryBuckets[4]
	require.Nil(t, catchAll.Sequence)
	require.Equal(t, catchAll.Index, doc.Observation.TerminalHistoryIndex)

	start := doc.Observation.HistoryBuckets[0]
	require.NotNil(t, start.Sequence)
	require.Empty(t, start.Sequence)
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scopemeter.dev/pkg/scopemeter/internal/controller"
	"scopemeter.dev/pkg/scopemeter/internal/domain"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

func TestCompareCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantOld string
		wantNew string
	}{
		{"against latest", []string{"compare", "old"}, "old", ""},
		{"two snapshots", []string{"compare", "old", "new"}, "old", "new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, mockWorkflow := newMockedCommand(t, newCompareCmd())

			mockWorkflow.On("Compare", mock.Anything, mock.MatchedBy(func(args domain.CompareArgs) bool {
				return args.OldID == tt.wantOld &&
					args.NewID == tt.wantNew &&
					args.Reports == m.Path(defaultReportsDir) &&
					args.Display.Format == controller.FormatText
			})).Return(nil)

			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
		})
	}
}

func TestCompareCmd_RequiresAnID(t *testing.T) {
	cmd, _ := newMockedCommand(t, newCompareCmd())

	cmd.SetArgs([]string{"compare"})
	require.Error(t, cmd.Execute())
}

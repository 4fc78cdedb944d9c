package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scopemeter.dev/pkg/scopemeter/internal/controller"
	"scopemeter.dev/pkg/scopemeter/internal/domain"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

func TestListCmd_PassesPathsAndExcludes(t *testing.T) {
	cmd, mockWorkflow := newMockedCommand(t, newListCmd())

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return len(args.Paths) == 1 &&
			args.Paths[0] == m.Path("./...") &&
			len(args.Exclude) == 1 &&
			args.Exclude[0] == "^target/" &&
			args.Display.Format == controller.FormatText
	})).Return(nil)

	cmd.SetArgs([]string{"list", "-x", "^target/", "./..."})
	require.NoError(t, cmd.Execute())
}

func TestListCmd_LanguageFlag(t *testing.T) {
	cmd, mockWorkflow := newMockedCommand(t, newListCmd())

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Config.Language == domain.LanguageGo &&
			args.Display.Format == controller.FormatYAML
	})).Return(nil)

	cmd.SetArgs([]string{"list", "--language", "go", "--format", "yml"})
	require.NoError(t, cmd.Execute())
}

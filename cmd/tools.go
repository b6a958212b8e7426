package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackfoxxx/VulnAI/internal/client"
)

// cliTimeout bounds one-shot management calls. Installs clone and
// build tools on the backend, so they get a longer budget.
const (
	cliTimeout     = 30 * time.Second
	installTimeout = 10 * time.Minute
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Manage the installed security tool catalog",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed tools in catalog order",
	RunE:  runToolsList,
}

var toolsTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List preconfigured tool templates",
	RunE:  runToolsTemplates,
}

var (
	installGitRepo     string
	installCommands    []string
	installDescription string
	installCategory    string
)

var toolsInstallCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "Install a tool from a template or a git repository",
	Long: `Install a tool on the backend.

With --git-repo the tool is cloned and built from the given
repository. Without it the backend falls back to its preconfigured
template for the name; template metadata pre-fills anything not
supplied explicitly.`,
	Args: cobra.ExactArgs(1),
	RunE: runToolsInstall,
}

var toolsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Uninstall a tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsRemove,
}

var (
	registerDescription    string
	registerCommand        string
	registerCategory       string
	registerExpectedOutput string
)

var toolsRegisterCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Register an already-installed tool with the assistant",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsRegister,
}

var runParams string

var toolsRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Invoke a tool directly with JSON parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolsRun,
}

func init() {
	toolsInstallCmd.Flags().StringVar(&installGitRepo, "git-repo", "", "git repository URL to install from")
	toolsInstallCmd.Flags().StringSliceVar(&installCommands, "install-cmd", nil, "install command (repeatable)")
	toolsInstallCmd.Flags().StringVar(&installDescription, "description", "", "tool description")
	toolsInstallCmd.Flags().StringVar(&installCategory, "category", "", "tool category")

	toolsRegisterCmd.Flags().StringVar(&registerDescription, "description", "", "what the tool does")
	toolsRegisterCmd.Flags().StringVar(&registerCommand, "command", "", "command line used to run the tool")
	toolsRegisterCmd.Flags().StringVar(&registerCategory, "category", "", "tool category")
	toolsRegisterCmd.Flags().StringVar(&registerExpectedOutput, "expected-output", "", "what the tool's output looks like")

	toolsRunCmd.Flags().StringVar(&runParams, "params", "{}", "tool parameters as a JSON object")

	toolsCmd.AddCommand(toolsListCmd, toolsTemplatesCmd, toolsInstallCmd, toolsRemoveCmd, toolsRegisterCmd, toolsRunCmd)
	rootCmd.AddCommand(toolsCmd)
}

func runToolsList(cmd *cobra.Command, args []string) error {
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	entries, err := gateway.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No tools installed.")
		return nil
	}

	for _, e := range entries {
		category := e.Tool.EffectiveCategory()
		fmt.Printf("%-20s %-15s %s\n", e.Name, category, e.Tool.Description)
	}
	return nil
}

func runToolsTemplates(cmd *cobra.Command, args []string) error {
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	templates, err := gateway.ListPreconfigured(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	if len(templates) == 0 {
		fmt.Println("No preconfigured templates available.")
		return nil
	}

	for _, t := range templates {
		fmt.Printf("%-20s %-15s %s\n", t.Key, t.Category, t.Description)
	}
	return nil
}

func runToolsInstall(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, logger, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), installTimeout)
	defer cancel()

	req := client.InstallRequest{
		Name:            name,
		GitRepoURL:      installGitRepo,
		InstallCommands: installCommands,
		Description:     installDescription,
		Category:        installCategory,
		// A chosen name with no custom git URL means the template path.
		UsePreconfigured: name != "" && installGitRepo == "",
	}

	// Pre-fill unsupplied fields from the matching template.
	if req.UsePreconfigured {
		if tpl, ok := findTemplate(ctx, gateway, name); ok {
			if req.Description == "" {
				req.Description = tpl.Description
			}
			if req.Category == "" {
				req.Category = tpl.Category
			}
			if len(req.InstallCommands) == 0 {
				req.InstallCommands = tpl.InstallCommands
			}
			if req.GitRepoURL == "" {
				req.GitRepoURL = tpl.GitRepoURL
			}
		} else {
			logger.Warn("no preconfigured template for tool", "tool", name)
		}
	}

	fmt.Printf("Installing %s...\n", name)
	message, err := gateway.InstallTool(ctx, req)
	if err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}
	if message == "" {
		message = name + " installed."
	}
	fmt.Println(message)
	return nil
}

// findTemplate matches a template by key or display name,
// case-insensitively.
func findTemplate(ctx context.Context, gateway *client.Gateway, name string) (client.Template, bool) {
	templates, err := gateway.ListPreconfigured(ctx)
	if err != nil {
		return client.Template{}, false
	}
	lower := strings.ToLower(name)
	for _, t := range templates {
		if strings.ToLower(t.Key) == lower || strings.ToLower(t.Name) == lower {
			return t, true
		}
	}
	return client.Template{}, false
}

func runToolsRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	if err := gateway.RemoveTool(ctx, name); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	fmt.Printf("%s has been removed.\n", name)
	return nil
}

func runToolsRegister(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	message, err := gateway.RegisterTool(ctx, client.RegisterRequest{
		Name:           name,
		Description:    registerDescription,
		Command:        registerCommand,
		Category:       registerCategory,
		ExpectedOutput: registerExpectedOutput,
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	if message == "" {
		message = name + " registered."
	}
	fmt.Println(message)
	return nil
}

func runToolsRun(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, _, gateway, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), installTimeout)
	defer cancel()

	output, err := gateway.InvokeTool(ctx, name, runParams)
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	fmt.Println(output)
	return nil
}

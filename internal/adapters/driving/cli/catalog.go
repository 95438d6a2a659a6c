package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
)

// ==================== project ====================

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "List and create projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

// ==================== kb ====================

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "List and create knowledge bases",
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge bases, optionally of one project",
	RunE:  runKBList,
}

var kbCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a knowledge base in a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBCreate,
}

// ==================== doc ====================

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "List, create and upload documents",
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documents of a knowledge base",
	RunE:  runDocList,
}

var docCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create an empty document in a knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocCreate,
}

var docUploadCmd = &cobra.Command{
	Use:   "upload [document-id] [file]",
	Short: "Upload file content into a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocUpload,
}

var docProfileCmd = &cobra.Command{
	Use:   "profile [document-id]",
	Short: "Show the generated profile of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocProfile,
}

// Flags shared by the catalog commands.
var (
	catalogProject     string
	catalogKB          string
	catalogDescription string
)

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	rootCmd.AddCommand(projectCmd)

	kbListCmd.Flags().StringVar(&catalogProject, "project", "", "only list knowledge bases of this project")
	kbCreateCmd.Flags().StringVar(&catalogProject, "project", "", "owning project id")
	kbCreateCmd.Flags().StringVar(&catalogDescription, "description", "", "optional description")
	_ = kbCreateCmd.MarkFlagRequired("project")
	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbCreateCmd)
	rootCmd.AddCommand(kbCmd)

	docListCmd.Flags().StringVar(&catalogKB, "kb", "", "knowledge base id")
	docCreateCmd.Flags().StringVar(&catalogKB, "kb", "", "knowledge base id")
	_ = docListCmd.MarkFlagRequired("kb")
	_ = docCreateCmd.MarkFlagRequired("kb")
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docCreateCmd)
	docCmd.AddCommand(docUploadCmd)
	docCmd.AddCommand(docProfileCmd)
	rootCmd.AddCommand(docCmd)
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	if scopeController == nil {
		return errors.New("scope controller not configured")
	}
	if err := scopeController.RefreshProjects(cmd.Context()); err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	projects := scopeController.Projects()
	if len(projects) == 0 {
		cmd.Println("No projects.")
		return nil
	}
	for _, p := range projects {
		cmd.Printf("  %s  %s\n", muted(p.ID), p.Name)
	}
	return nil
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	p, err := catalogService.CreateProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("%s project %s (%s)\n", success("Created"), p.Name, p.ID)
	return nil
}

func runKBList(cmd *cobra.Command, _ []string) error {
	if scopeController == nil {
		return errors.New("scope controller not configured")
	}
	defer scopeController.Wait()
	if scopeController.Selection().ProjectID != catalogProject {
		scopeController.SetProject(cmd.Context(), catalogProject)
	}
	if err := scopeController.RefreshKnowledgeBases(cmd.Context(), catalogProject); err != nil {
		return fmt.Errorf("failed to list knowledge bases: %w", err)
	}

	kbs := scopeController.KnowledgeBases()
	if len(kbs) == 0 {
		cmd.Println("No knowledge bases.")
		return nil
	}
	for _, kb := range kbs {
		line := fmt.Sprintf("  %s  %s", muted(kb.ID), kb.Name)
		if kb.Description != "" {
			line += muted(" - " + kb.Description)
		}
		cmd.Println(line)
	}
	return nil
}

func runKBCreate(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	kb, err := catalogService.CreateKnowledgeBase(cmd.Context(), catalogProject, args[0], catalogDescription)
	if err != nil {
		return err
	}
	cmd.Printf("%s knowledge base %s (%s)\n", success("Created"), kb.Name, kb.ID)
	return nil
}

func runDocList(cmd *cobra.Command, _ []string) error {
	if scopeController == nil {
		return errors.New("scope controller not configured")
	}
	defer scopeController.Wait()
	if scopeController.Selection().KBID != catalogKB {
		scopeController.SetKnowledgeBase(cmd.Context(), catalogKB)
	}
	if err := scopeController.RefreshDocuments(cmd.Context(), catalogKB); err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	docs := scopeController.Documents()
	if len(docs) == 0 {
		cmd.Println("No documents.")
		return nil
	}
	for _, d := range docs {
		cmd.Printf("  %s  %s\n", muted(d.ID), d.DisplayTitle())
	}
	return nil
}

func runDocCreate(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	d, err := catalogService.CreateDocument(cmd.Context(), catalogKB, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("%s document %s (%s)\n", success("Created"), d.DisplayTitle(), d.ID)
	return nil
}

func runDocUpload(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	docID, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	out, err := catalogService.Upload(cmd.Context(), docID, filepath.Base(path), f)
	if err != nil {
		return err
	}
	cmd.Printf("%s %s\n", success("Uploaded"), filepath.Base(path))
	if out != nil {
		data, err := json.MarshalIndent(out, "", "  ")
		if err == nil {
			cmd.Println(string(data))
		}
	}
	return nil
}

func runDocProfile(cmd *cobra.Command, args []string) error {
	if profileResolver == nil {
		return errors.New("profile resolver not configured")
	}
	p := profileResolver.Fetch(cmd.Context(), args[0])
	if p == nil {
		cmd.Println("No profile available.")
		return nil
	}
	printProfile(cmd, p)
	return nil
}

func printProfile(cmd *cobra.Command, p *domain.DocumentProfile) {
	if p.Title != "" {
		cmd.Printf("Title:   %s\n", p.Title)
	}
	if p.DocType != "" {
		cmd.Printf("Type:    %s\n", p.DocType)
	}
	if years := p.Years(); years != "" {
		cmd.Printf("Years:   %s\n", years)
	}
	if len(p.Tags) > 0 {
		cmd.Printf("Tags:    %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Summary != "" {
		cmd.Println()
		cmd.Println(p.Summary)
	}
}

package tasks

import (
	"context"
	"fmt"
)

// EnqueueNote queues a rewritten note for indexing.
func (c *Client) EnqueueNote(_ context.Context, path string) error {
	if _, err := c.Add(IndexNoteTask{Path: path}).Save(); err != nil {
		return fmt.Errorf("enqueue index_note: %w", err)
	}
	return nil
}

// EnqueueReindex queues a full walk of the knowledge and notes directories.
func (c *Client) EnqueueReindex(knowledgeDir, notesDir string) (string, error) {
	ids, err := c.Add(ReindexKnowledgeTask{KnowledgeDir: knowledgeDir, NotesDir: notesDir}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue reindex_knowledge: %w", err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// EnqueueCleanup queues removal of rewrite history older than retentionDays.
func (c *Client) EnqueueCleanup(retentionDays int) error {
	if _, err := c.Add(CleanupHistoryTask{RetentionDays: retentionDays}).Save(); err != nil {
		return fmt.Errorf("enqueue cleanup_history: %w", err)
	}
	return nil
}

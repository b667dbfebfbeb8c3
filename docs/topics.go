// Package docs holds the btcf documentation topics, embedded in the binary.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index is the topic listing every other topic.
const Index = "readme"

// All stands for every topic but the index.
const All = "*"

// GetTopic returns the content of a single documentation topic.
func GetTopic(topic string) (string, error) {
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found, want one of %s: %w", topic, strings.Join(names(), ", "), err)
	}
	return string(content), nil
}

// GetTopics returns the content of several topics, separated by a blank
// line. All expands to every topic.
func GetTopics(topics ...string) (string, error) {
	var parts []string
	for _, topic := range expand(topics) {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.TrimRight(content, "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// GetAllTopics returns the sorted names of every topic except the index.
func GetAllTopics() ([]string, error) {
	entries, err := fs.ReadDir(docs, ".")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if !e.IsDir() && name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics, nil
}

// expand replaces All by the topic names.
func expand(topics []string) []string {
	var out []string
	for _, t := range topics {
		if t == All {
			out = append(out, names()...)
			continue
		}
		out = append(out, t)
	}
	return out
}

// names is GetAllTopics for an embedded directory that cannot fail to read.
func names() []string {
	topics, _ := GetAllTopics()
	return topics
}

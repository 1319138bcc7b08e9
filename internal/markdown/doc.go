// Package markdown renders request timeline comments from Markdown to HTML.
package markdown

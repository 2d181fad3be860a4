// Package smali parses the declaration headers of baksmali output
// (.class, .super, .implements, .field and .method lines) into a Class
// model. Method bodies, annotations and other directives are skipped.
//
// Lines are tokenized independently and may be processed concurrently;
// an Assembler merges the resulting fragments into exactly one Class.
package smali

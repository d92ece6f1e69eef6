// Package manifest defines the pupi workspace manifest (pupi.json, pupi.yaml
// or pupi.yml) and loads it from disk. A Root maps member paths to Members;
// each Member declares its dependency edges and which build systems and
// repository mirrors it is bound to.
package manifest

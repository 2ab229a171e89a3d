/*
Package paths resolves logical resource names against layered base directories.

A switchback app is assembled from overlaying source trees:
zero or more package directories, the application root, and the framework base.
A [Set] orders those directories and hands out the candidate list for each kind of resource:

  - [Set.Library] searches packages, the application root, then the framework base.
  - [Set.MVC] searches packages, then the application root.
  - [Set.Views] follows MVC order but stops after the first directory that does not cascade.

A [Resolver] probes an [io/fs.FS] for the first directory of a candidate list holding a relative path.
Probes are cached; [Resolver.Watch] resets the cache whenever a watched directory changes on disk.
*/
package paths

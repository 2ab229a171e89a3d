/*
Package logger provides logging functionality to a switchback app by defining the required behavior in [Logger]
and providing an implementation of it with [SwitchbackLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, [SwitchbackLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*SwitchbackLogger.Warn], [*SwitchbackLogger.Error], and [*SwitchbackLogger.Fatal] produce messages.

# SwitchbackLogger

Log messages emitted by [SwitchbackLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2022/04/28 15:55:21 [DEBUG] loader/component.go:43 'component loaded' log_context: {"data":{"field":"email"},"route":["app/","","blog","index"]}

The router and loader log every resolution step at the debug level,
so running with LOG_LEVEL=DEBUG narrates how a request found its handler.

# SkipLogger

Sometimes, especially with internal packages, the file and line number in a log needs to be configurable.
[SkipLogger] provides additional configuration functionality by setting the number of frames to skip
back in order to reach the desired caller.
*/
package logger

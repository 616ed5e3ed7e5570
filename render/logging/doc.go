// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*

Logging for the render lifecycle goes through logrus.

1. Internal logs: thread, surface and device events, written to stderr by default
2. GL call logs: when GL call logging is enabled, every call made through the
   wrapped graphics interface is written line by line through LogWriter

Render thread entries carry the "thread" (render thread ID) and "tid" (OS thread)
fields so interleaved control and render thread output can be told apart.

*/
package logging

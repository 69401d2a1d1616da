/*
Package relay forwards prompts to the completion oracle.

The relay is stateless. Each call attaches a fixed instruction template, sends
exactly one completion request and returns the oracle's text. There is no
caching and no retry.

Simplify surfaces failures as *Error so transports can map them to a status
code. GenerateTitle never fails: when the oracle is unreachable it returns
domain.FallbackTitle of the prompt.
*/
package relay

// Package naming renders group address display names from name templates.
//
// A template is literal text with placeholders of the form {key} or
// {key:width}. Index keys are 1-based and left-padded with zeros to width:
//
//	{area.abbr} {room.name} {device.desc} {instance.index:2} - {function.name}
//
// renders as "GF Kitchen Light 01 - Switch".
//
// Unknown keys are kept verbatim, braces included, so a typo shows up in the
// preview instead of failing generation. After substitution whitespace runs
// collapse to a single space and the result is trimmed.
//
// Render is pure and safe for concurrent use.
package naming

package rod

const (
	formHTML = `<!DOCTYPE html>
<html>
<head><title>Form</title></head>
<body>
	<nav>Menu</nav>
	<h1>Sign in</h1>
	<form id="testForm">
		<input id="username" type="text" name="username" />
		<button id="submit" type="button">Submit</button>
	</form>
	<a id="more" href="#more">Read more about this page which has a deliberately long link text</a>
	<div id="result"></div>
	<script>
		document.getElementById('submit').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Hello ' + document.getElementById('username').value;
		});
	</script>
</body>
</html>`
)
